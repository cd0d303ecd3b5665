package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/database"
)

func bucket() string {
	return os.Getenv("MINIO_BUCKET")
}

// UploadWorkpaper stocke le fichier d'un workpaper numérique sous
// workpapers/<uuid>-<nom> et retourne la clé objet
func UploadWorkpaper(ctx context.Context, fileName string, reader io.Reader, size int64, contentType string) (string, error) {
	key := fmt.Sprintf("workpapers/%s-%s", uuid.NewString(), fileName)

	_, err := database.MinIO.PutObject(ctx, bucket(), key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("erreur upload MinIO: %v", err)
	}
	return key, nil
}

// GenerateSignedURL produit une URL de téléchargement signée et expirante
// — c'est la seule voie d'accès aux fichiers achetés
func GenerateSignedURL(ctx context.Context, objectKey string, duration time.Duration) (string, error) {
	presignedURL, err := database.MinIO.PresignedGetObject(ctx, bucket(), objectKey, duration, url.Values{})
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}

// RemoveObject supprime le fichier d'une annonce retirée
func RemoveObject(ctx context.Context, objectKey string) error {
	return database.MinIO.RemoveObject(ctx, bucket(), objectKey, minio.RemoveObjectOptions{})
}
