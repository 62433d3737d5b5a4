package main

import (
	"net/http"

	"mitsumori/catalog"
	"mitsumori/database"
	"mitsumori/pdf"
	"mitsumori/quote"
)

func SetupRoutes(mux *http.ServeMux, store database.Store, provider *catalog.Provider, renderer *pdf.Renderer) {

	mux.HandleFunc("/api/catalog", quote.CatalogHandler(provider))

	mux.HandleFunc("/api/quotes/create", quote.CreateQuoteHandler(store, provider, renderer))
	mux.HandleFunc("/api/quotes/search", quote.SearchQuotesHandler(store))
	mux.HandleFunc("/api/quotes/by_id/", quote.GetQuoteHandler(store))
	mux.HandleFunc("/api/quotes/pdf/", quote.GetQuotePDFHandler(store, renderer))
	mux.HandleFunc("/api/quotes/delete/", quote.DeleteQuoteHandler(store))

	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			GetConfigHandler()(w, r)
		case http.MethodPost:
			SaveConfigHandler()(w, r)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	})
}
