package routes

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/handlers/admin"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/handlers/listing"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/handlers/payment"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/handlers/user"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/handlers/vendor"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/middleware"
	"github.com/HanSo1o-a/Cimplico-Marketplace-sub001/internal/models"
)

const (
	AdminPrefix = "/api/admin"
	AdminHome   = "/api/admin/stats"
)

// RouterForRole : point d'entrée unique du front pour savoir quel arbre
// de routes sert un rôle donné. Fonction pure, sans effet de bord.
func RouterForRole(role string) string {
	if role == models.RoleAdmin {
		return AdminPrefix
	}
	return "/api"
}

func RegisterRoutes(r *gin.Engine) {
	r.Use(corsMiddleware())
	// ✅ tout utilisateur est résolu (anonyme compris) avant le routage
	r.Use(middleware.OptionalAuth())
	// les admins connectés sont renvoyés vers leur espace ; la session,
	// l'auth et les webhooks restent accessibles
	r.Use(middleware.AdminRedirect(AdminPrefix, AdminHome,
		"/api/user", "/api/login", "/api/logout", "/api/register",
		"/api/language", "/api/auth/", "/api/stripe/"))

	api := r.Group("/api")

	// --- Public ---
	api.POST("/register", middleware.RegisterRateLimit(), user.Register)
	api.POST("/login", middleware.LoginRateLimit(), user.Login)
	api.GET("/auth/:provider", user.BeginAuth)
	api.GET("/auth/:provider/callback", user.CallbackAuth)
	api.POST("/auth/google/exchange", user.ExchangeGoogleCode)

	api.GET("/listings", listing.GetListings)
	api.GET("/listings/:id", listing.GetListingByID)
	api.GET("/listings/:id/comments", listing.GetListingComments)
	api.GET("/categories", listing.GetAllCategories)
	api.GET("/vendors/:id", vendor.GetVendorByID)

	api.POST("/stripe/webhook", payment.StripeWebhook)

	// --- Session : l'anonyme reçoit user=null, jamais 401 ---
	api.GET("/user", user.Me)
	api.GET("/language", user.GetLanguage)

	// --- Acheteur connecté ---
	auth := api.Group("")
	auth.Use(middleware.AuthRequired())
	{
		auth.POST("/logout", user.Logout)
		auth.PUT("/user", user.UpdateProfile)
		auth.PUT("/language", user.SetLanguage)

		auth.GET("/cart", user.GetCart)
		auth.POST("/cart", user.AddToCart)
		auth.PATCH("/cart/:productId", user.UpdateCartQuantity)
		auth.DELETE("/cart/:productId", user.RemoveFromCart)
		auth.DELETE("/cart", user.ClearCart)
		auth.GET("/cart/ws", user.CartWebSocket)

		auth.GET("/orders", user.GetMyOrders)
		auth.GET("/orders/:id", user.GetOrderByID)
		auth.PATCH("/orders/:id/confirm", user.ConfirmOrderStatus)
		auth.GET("/orders/:id/qr", user.OrderQR)
		auth.GET("/orders/:id/download/:productId", user.DownloadWorkpaper)

		auth.POST("/checkout", payment.CreatePaymentIntent)
		auth.POST("/vendor/apply", vendor.Apply)
		auth.GET("/vendor/profile", vendor.MyProfile)

		auth.POST("/listings/:id/comments", middleware.RequireRole(models.RoleBuyer), listing.CreateComment)
	}

	// --- Vendeur approuvé ---
	vendorGroup := api.Group("/vendor")
	vendorGroup.Use(middleware.AuthRequired(), middleware.RequireRole(models.RoleVendor))
	{
		vendorGroup.GET("/listings", vendor.MyListings)
		vendorGroup.POST("/listings", listing.CreateListing)
		vendorGroup.POST("/listings/:id/file", listing.UploadWorkpaperFile)
		vendorGroup.PUT("/listings/:id", listing.UpdateListing)
		vendorGroup.DELETE("/listings/:id", listing.DeleteListing)
	}

	// --- Admin ---
	adminGroup := r.Group(AdminPrefix)
	adminGroup.Use(middleware.AuthRequired(), middleware.RequireAdmin())
	{
		adminGroup.GET("/stats", admin.GetStats)

		adminGroup.GET("/vendors", admin.ListVendors)
		adminGroup.POST("/vendors/:id/approve", admin.ApproveVendor)
		adminGroup.POST("/vendors/:id/reject", admin.RejectVendor)

		adminGroup.GET("/comments/pending", admin.ListPendingComments)
		adminGroup.POST("/comments/:id/approve", admin.ApproveComment)
		adminGroup.POST("/comments/:id/reject", admin.RejectComment)

		adminGroup.GET("/orders", admin.ListOrders)
		adminGroup.PATCH("/orders/:id/status", admin.UpdateOrderStatus)

		adminGroup.POST("/categories", listing.CreateCategory)
		adminGroup.PUT("/categories/:id", listing.UpdateCategory)
		adminGroup.DELETE("/categories/:id", listing.DeleteCategory)

		// les admins peuvent modérer une annonce directement
		adminGroup.PUT("/listings/:id", listing.UpdateListing)
	}
}

func corsMiddleware() gin.HandlerFunc {
	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
