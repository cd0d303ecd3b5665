package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/database"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
)

const listingsIndex = "listings"

//
// --- INDEXATION ---
//

// IndexListing pousse une annonce dans Elasticsearch ; appelé en
// goroutine après chaque création/mise à jour, l'échec n'est que loggé
func IndexListing(l models.Listing) {
	if database.Elastic == nil {
		log.Println("⚠️ Elastic non initialisé, impossible d'indexer:", l.Title)
		return
	}

	data, _ := json.Marshal(l)
	req := esapi.IndexRequest{
		Index:      listingsIndex,
		DocumentID: l.ID.String(),
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}

	res, err := req.Do(context.Background(), database.Elastic)
	if err != nil {
		log.Println("❌ Erreur envoi Elastic:", err)
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Printf("⚠️ Elastic a renvoyé une erreur pour %s: %s", l.Title, res.String())
	}
}

// RemoveListing retire une annonce de l'index (suppression ou rejet)
func RemoveListing(listingID string) {
	if database.Elastic == nil {
		return
	}

	req := esapi.DeleteRequest{Index: listingsIndex, DocumentID: listingID}
	res, err := req.Do(context.Background(), database.Elastic)
	if err != nil {
		log.Println("❌ Erreur suppression Elastic:", err)
		return
	}
	res.Body.Close()
}

//
// --- RECHERCHE ---
//

// SearchListings interroge l'index sur titre, description et tags.
// Les bornes de prix et le tri sont poussés dans la requête ; catégorie
// et freeOnly restent filtrés en mémoire par l'appelant.
func SearchListings(query string, minPrice, maxPrice float64, sort string) ([]models.Listing, error) {
	if database.Elastic == nil {
		return nil, errors.New("client Elasticsearch non initialisé")
	}

	must := []map[string]interface{}{
		{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title", "description", "tags"},
			},
		},
	}

	filter := []map[string]interface{}{
		{"term": map[string]interface{}{"status": models.ListingActive}},
	}
	if minPrice > 0 || maxPrice > 0 {
		rangeQuery := map[string]interface{}{}
		if minPrice > 0 {
			rangeQuery["gte"] = minPrice
		}
		if maxPrice > 0 {
			rangeQuery["lte"] = maxPrice
		}
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{"price": rangeQuery},
		})
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
	}

	switch sort {
	case "price_asc":
		body["sort"] = []map[string]interface{}{{"price": "asc"}}
	case "price_desc":
		body["sort"] = []map[string]interface{}{{"price": "desc"}}
	case "newest":
		body["sort"] = []map[string]interface{}{{"created_at": "desc"}}
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("erreur encodage requête: %v", err)
	}

	req := esapi.SearchRequest{
		Index: []string{listingsIndex},
		Body:  &buf,
	}
	res, err := req.Do(context.Background(), database.Elastic)
	if err != nil {
		return nil, fmt.Errorf("erreur requête Elastic: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.New("index non trouvé ou vide")
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Listing `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("erreur décodage JSON: %v", err)
	}

	listings := make([]models.Listing, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		listings = append(listings, hit.Source)
	}
	return listings, nil
}
