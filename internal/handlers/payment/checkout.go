package payment

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/webhook"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/database"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/store"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/utils"
)

//
// 💳 POST /api/checkout — PaymentIntent Stripe depuis le panier Redis
//
func CreatePaymentIntent(c *gin.Context) {
	userID := c.GetString("user_id")
	email := c.GetString("email")

	if userID == "" || email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié ou e-mail manquant"})
		return
	}

	ctx := c.Request.Context()
	cart, err := store.NewCartStore(ctx, userID, store.NewRedisCartPersistence(database.Redis))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	items := cart.Items()
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide"})
		return
	}

	// reprix côté serveur : seules les annonces actives du catalogue comptent
	catalog, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	for i, item := range items {
		listingID, err := gocql.ParseUUID(item.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide: " + item.ProductID})
			return
		}

		var title, status string
		var price float64
		if err := catalog.Query(`SELECT title, price, status FROM listings WHERE listing_id = ?`,
			listingID).Scan(&title, &price, &status); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Annonce introuvable: " + item.ProductID})
			return
		}
		if status != models.ListingActive {
			c.JSON(http.StatusConflict, gin.H{"error": "Annonce plus disponible", "product": title})
			return
		}

		items[i].Title = title
		items[i].Price = price
	}

	total := calcTotal(items)
	if total <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Montant nul — les workpapers gratuits se téléchargent directement"})
		return
	}

	// ✅ le panier voyage dans les metadata Stripe, pas dans Redis
	cartJSON, err := json.Marshal(items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serialisation panier"})
		return
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(total * 100)),
		Currency: stripe.String("eur"),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"user_id": userID,
			"email":   email,
			"cart":    string(cartJSON),
		},
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		log.Println("❌ Erreur Stripe:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création paiement"})
		return
	}

	log.Printf("💳 PaymentIntent créé : %s (%.2f€) pour %s", intent.ID, total, email)

	c.JSON(http.StatusOK, gin.H{
		"clientSecret": intent.ClientSecret,
		"paymentId":    intent.ID,
		"amount":       total,
		"currency":     "eur",
		"items_count":  cart.ItemsCount(),
	})
}

//
// 💳 POST /api/stripe/webhook
//
func StripeWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := c.GetRawData()
	if err != nil {
		log.Println("❌ Lecture payload échouée:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Échec lecture body"})
		return
	}

	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	var event stripe.Event

	if secret == "" {
		log.Println("⚠️ Pas de STRIPE_WEBHOOK_SECRET — mode test")
		if err := json.Unmarshal(payload, &event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "JSON invalide"})
			return
		}
	} else {
		event, err = webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), secret)
		if err != nil {
			log.Println("❌ Signature Stripe invalide:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Signature invalide"})
			return
		}
	}

	handleStripeEvent(event)
	c.Status(http.StatusOK)
}

func handleStripeEvent(event stripe.Event) {
	if event.Type != "payment_intent.succeeded" {
		log.Printf("ℹ️ Événement ignoré : %s", event.Type)
		return
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		log.Println("❌ Erreur décodage PaymentIntent:", err)
		return
	}

	userID := pi.Metadata["user_id"]
	userEmail := pi.Metadata["email"]
	cartData := pi.Metadata["cart"]

	if userID == "" || userEmail == "" || cartData == "" {
		log.Println("⚠️ Métadonnées incomplètes")
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		log.Println("❌ Erreur connexion base de données:", err)
		return
	}

	// idempotence : un PaymentIntent = une commande
	ctx := context.Background()
	var existing gocql.UUID
	if err := session.Query(`SELECT order_id FROM orders_by_stripe WHERE stripe_id = ?`,
		pi.ID).Scan(&existing); err == nil {
		log.Println("🔁 Commande déjà enregistrée, on ignore.")
		return
	}

	var items []models.OrderItem
	if err := json.Unmarshal([]byte(cartData), &items); err != nil {
		log.Println("❌ Erreur JSON panier:", err)
		return
	}

	order := models.Order{
		ID:          gocql.TimeUUID(),
		UserID:      userID,
		Items:       items,
		AmountTotal: float64(pi.Amount) / 100,
		Status:      models.OrderPaid,
		StripeID:    pi.ID,
		CreatedAt:   time.Now(),
	}

	itemsJSON, _ := json.Marshal(order.Items)

	if err := session.Query(`INSERT INTO orders (order_id, user_id, items, amount_total, status,
		stripe_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.UserID, string(itemsJSON), order.AmountTotal, order.Status,
		order.StripeID, order.CreatedAt).Exec(); err != nil {
		log.Println("❌ Erreur insertion commande:", err)
		return
	}
	if err := session.Query(`INSERT INTO orders_by_user (user_id, created_at, order_id, items,
		amount_total, status) VALUES (?, ?, ?, ?, ?, ?)`,
		order.UserID, order.CreatedAt, order.ID, string(itemsJSON),
		order.AmountTotal, order.Status).Exec(); err != nil {
		log.Printf("⚠️ Erreur index orders_by_user: %v", err)
	}
	if err := session.Query(`INSERT INTO orders_by_stripe (stripe_id, order_id) VALUES (?, ?)`,
		order.StripeID, order.ID).Exec(); err != nil {
		log.Printf("⚠️ Erreur index orders_by_stripe: %v", err)
	}

	log.Printf("✅ Commande %s créée pour %s (%.2f€)", order.ID, userEmail, order.AmountTotal)

	// 🧹 vider le panier APRÈS la commande — les WebSockets suivent via pub/sub
	if cart, err := store.NewCartStore(ctx, userID, store.NewRedisCartPersistence(database.Redis)); err == nil {
		if err := cart.Clear(ctx); err == nil {
			log.Printf("🧹 Panier vidé pour %s", userID)
		}
	}

	go sendConfirmation(order, userEmail)
}

// sendConfirmation : email de confirmation avec facture PDF en pièce jointe
func sendConfirmation(order models.Order, email string) {
	html := utils.OrderConfirmationHTML(order)

	pdf, err := utils.RenderInvoicePDF(order)
	if err != nil {
		log.Println("❌ Erreur génération PDF :", err)
		pdf = nil
	}

	if err := utils.SendEmail(email, "Confirmation de votre commande", html, pdf); err != nil {
		log.Println("❌ Erreur envoi e-mail confirmation :", err)
	} else {
		log.Println("📧 E-mail de confirmation envoyé à", email)
	}
}

func calcTotal(items []models.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
