package utils

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/skip2/go-qrcode"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
)

// GenerateOrderQR encode l'identifiant de commande en QR, en base64 prêt
// pour un <img src="..."> — scanné à la livraison pour la confirmation
func GenerateOrderQR(orderID string) (string, error) {
	png, err := qrcode.Encode("order:"+orderID, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// GenerateOrderQRPNG : même contenu, en PNG brut pour l'endpoint /qr
func GenerateOrderQRPNG(orderID string) ([]byte, error) {
	return qrcode.Encode("order:"+orderID, qrcode.Medium, 256)
}

// RenderInvoicePDF imprime la facture HTML en PDF via Chrome headless.
// Le HTML est chargé en data URL, pas besoin d'un front qui tourne.
func RenderInvoicePDF(order models.Order) ([]byte, error) {
	qr, err := GenerateOrderQR(order.ID.String())
	if err != nil {
		return nil, err
	}

	html := invoiceHTML(order, qr)
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var pdf []byte
	err = chromedp.Run(ctx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("erreur rendu PDF: %v", err)
	}
	return pdf, nil
}

func invoiceHTML(order models.Order, qrBase64 string) string {
	rows := ""
	for _, item := range order.Items {
		rows += fmt.Sprintf(`<tr><td>%s</td><td>%d</td><td>%.2f€</td></tr>`,
			item.Title, item.Quantity, item.Price*float64(item.Quantity))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Facture %s</title></head>
<body style="font-family: Arial, sans-serif; padding: 40px;">
	<h1>Facture</h1>
	<p>Commande %s — %s</p>
	<table width="100%%" cellpadding="6" border="1" style="border-collapse: collapse;">
		<tr><th align="left">Article</th><th>Qté</th><th>Total</th></tr>
		%s
	</table>
	<h3 style="text-align: right;">Total : %.2f€</h3>
	<img src="%s" width="128" height="128" alt="QR commande">
</body>
</html>`, order.ID.String(), order.ID.String(),
		order.CreatedAt.Format("02/01/2006"), rows, order.AmountTotal, qrBase64)
}
