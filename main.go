package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"p9e.in/asbsurvey/config"
	"p9e.in/asbsurvey/handlers"
	"p9e.in/asbsurvey/routes"
	"p9e.in/asbsurvey/store"
)

var (
	Version   = "dev"
	BuildTime = ""
)

func main() {

	versionFlag := flag.Bool("version", false, "Print version info and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("Version:   %s\n", Version)
		fmt.Printf("BuildTime: %s\n", BuildTime)
		os.Exit(0)
	}

	cfg := config.Load()

	reports, err := store.NewExcelRowStore(cfg.ReportsWorkbook, map[string][]string{
		store.MainSheet:     store.MainHeader,
		store.SectionsSheet: store.SectionsHeader,
		store.ImagesSheet:   store.ImagesHeader,
	})
	if err != nil {
		log.Fatalf("could not open reports workbook: %v", err)
	}

	defaults, err := store.NewExcelRowStore(cfg.DefaultsWorkbook, map[string][]string{
		cfg.DefaultsSheet: nil,
	})
	if err != nil {
		log.Fatalf("could not open defaults workbook: %v", err)
	}

	var images store.ImageStore
	if cfg.UseGCS() {
		images, err = store.NewGCSImageStore(context.Background(), cfg.GCSBucket)
		if err != nil {
			log.Fatalf("could not create GCS image store: %v", err)
		}
	} else {
		images, err = store.NewLocalImageStore(cfg.UploadDir)
		if err != nil {
			log.Fatalf("could not create local image store: %v", err)
		}
	}

	api := &handlers.API{
		Reports:       reports,
		Defaults:      defaults,
		DefaultsSheet: cfg.DefaultsSheet,
		Images:        images,
	}

	handler := routes.RegisterRoutes(api)
	handlerWithCORS := enableCORS(handler)
	log.Println("Server starting at port", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handlerWithCORS))
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Required CORS headers
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		// Handle preflight (OPTIONS)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
