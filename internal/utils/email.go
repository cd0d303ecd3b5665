package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"github.com/wneessen/go-mail"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
)

// SendEmail envoie un mail HTML via le SMTP configuré, avec pièce jointe
// PDF optionnelle
func SendEmail(to, subject, htmlBody string, pdfAttachment []byte) error {
	msg := mail.NewMsg()

	if err := msg.From(os.Getenv("SMTP_FROM")); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if pdfAttachment != nil {
		msg.AttachReader("facture.pdf", bytes.NewReader(pdfAttachment))
	}

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}

// OrderConfirmationHTML génère le corps du mail de confirmation de commande
func OrderConfirmationHTML(order models.Order) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>%.2f€</td>
				<td>%.2f€</td>
			</tr>`, item.Title, item.Quantity, item.Price, item.Price*float64(item.Quantity))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Confirmation de commande</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Confirmation de votre commande</h2>
		<p>Bonjour,</p>
		<p>Votre commande <strong>%s</strong> a bien été enregistrée.</p>
		<table width="100%%" cellpadding="6" style="border-collapse: collapse;">
			<tr style="background-color: #eee;">
				<th align="left">Article</th><th>Qté</th><th>Prix</th><th>Total</th>
			</tr>
			%s
		</table>
		<p style="text-align: right; font-size: 18px;"><strong>Total : %.2f€</strong></p>
		<p>Merci pour votre confiance.</p>
	</div>
</body>
</html>`, order.ID.String(), itemsHTML, order.AmountTotal)
}

// VendorDecisionHTML génère le mail d'approbation ou de refus d'une
// candidature vendeur
func VendorDecisionHTML(companyName string, approved bool, reason string) string {
	if approved {
		return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<body style="font-family: Arial, sans-serif; padding: 20px;">
	<h2>Candidature approuvée</h2>
	<p>Félicitations ! Le profil vendeur <strong>%s</strong> est maintenant actif.</p>
	<p>Vous pouvez dès à présent publier vos workpapers sur la marketplace.</p>
</body>
</html>`, companyName)
	}

	reasonHTML := ""
	if reason != "" {
		reasonHTML = fmt.Sprintf("<p>Motif : %s</p>", reason)
	}
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<body style="font-family: Arial, sans-serif; padding: 20px;">
	<h2>Candidature refusée</h2>
	<p>Votre candidature vendeur pour <strong>%s</strong> n'a pas été retenue.</p>
	%s
</body>
</html>`, companyName, reasonHTML)
}
