// Copyright (c) 2026. The pwd-analyzer Authors.
// SPDX-License-Identifier: MIT

package cli

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/likexian/selfca"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/net/context"

	"pwd-analyzer/internal/analyzer"
	"pwd-analyzer/internal/api"
	"pwd-analyzer/internal/config"
	"pwd-analyzer/internal/crack"
	"pwd-analyzer/internal/pii"
	"pwd-analyzer/internal/records"
	"pwd-analyzer/internal/strength"
	"pwd-analyzer/internal/util"
)

var (
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the password analysis API",
		Long: "Serve the password analysis API over TLS. All settings are read from the " +
			"environment: PORT, SELF_TLS or TLS_CERT/TLS_KEY, and optionally OLLAMA_URL/OLLAMA_MODEL " +
			"or GEMINI_API_KEY/GEMINI_MODEL for remote crack-time estimation and DATASET_DIR for " +
			"personal-record matching",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCommand()
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serveCommand() error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("error loading configuration")
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	remote, closeRemote, err := buildRemote(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error initializing remote crack-time estimator")
	}
	if closeRemote != nil {
		defer closeRemote()
	}

	var defaults []records.Record
	if cfg.DatasetDir != "" {
		if defaults, err = records.LoadDir(cfg.DatasetDir); err != nil {
			log.Fatal().Err(err).Msg("error loading personal-record datasets")
		}
		log.Info().Msgf("loaded %d personal records from %s", len(defaults), cfg.DatasetDir)
	}

	scorer := strength.NewScorer(strength.NewLinearModel(), nil)
	a, err := analyzer.New(scorer, crack.NewEstimator(remote), pii.NewMatcher(nil), defaults)
	if err != nil {
		log.Fatal().Err(err).Msg("error initializing analyzer")
	}
	defer a.Close()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.SetLogger(logger.WithLogger(func(c *gin.Context, z zerolog.Logger) zerolog.Logger {
		return zerolog.New(gin.DefaultWriter).With().Timestamp().Logger()
	})))

	v1 := router.Group("/v1")
	api.RegisterAnalyzeApi(v1.Group("/analyze"), a)

	srvAddr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:    srvAddr,
		Handler: router,
	}

	go func() {
		log.Info().Msgf("starting TLS Server on address: %s", srvAddr)
		if cfg.TLSCert != "" && cfg.TLSKey != "" {
			// service connections with tls certs
			if err := srv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("error starting server")
			}
		} else if cfg.SelfTLS {
			log.Warn().Msgf("using auto self-signed certificate for TLS. This is not recommended for production. Please consider using your own certificates.")
			caConfig := selfca.Certificate{
				IsCA:      true,
				KeySize:   2048,
				NotBefore: time.Now(),
				// 30 day self-signed cert.
				NotAfter: time.Now().Add(time.Duration(30*24) * time.Hour),
			}

			// generating the certificate
			certificate, key, err := selfca.GenerateCertificate(caConfig)
			if err != nil {
				log.Fatal().Err(err).Msg("error generating auto self-signed certificate")
			}

			pair, err := tls.X509KeyPair(
				pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certificate}),
				pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}),
			)
			if err != nil {
				log.Fatal().Err(err).Msg("error using auto self-signed certificate")
			}

			srv.TLSConfig = &tls.Config{
				Certificates: []tls.Certificate{pair},
			}

			// service connections with tls config, no need to pass files
			if err = srv.ListenAndServeTLS("", ""); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("error starting server")
			}
		} else {
			log.Fatal().Msg("server requires TLS configuration to start. " +
				"Please set either the SELF_TLS variable or a certificate with the TLS_CERT and TLS_KEY variables")
		}
	}()

	gracefulShutdown(srv)
	return nil
}

// buildRemote picks the remote crack-time estimator from configuration. Gemini
// wins when both are configured; a nil remote means fallback-only estimation.
func buildRemote(cfg config.Config) (crack.RemoteEstimator, func(), error) {
	if cfg.GeminiApiKey != "" {
		gemini, err := crack.NewGeminiEstimator(context.Background(), cfg.GeminiApiKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Msgf("remote crack-time estimation through Gemini model %s", cfg.GeminiModel)
		return gemini, func() { _ = gemini.Close() }, nil
	}

	if cfg.OllamaUrl != "" {
		log.Info().Msgf("remote crack-time estimation through %s model %s", cfg.OllamaUrl, cfg.OllamaModel)
		return crack.NewOllamaEstimator(cfg.OllamaUrl, cfg.OllamaModel), nil, nil
	}

	return nil, nil, nil
}

func gracefulShutdown(srv *http.Server) {
	// Wait for interrupt signal to gracefully shut down the server with
	// a timeout.
	quit := make(chan os.Signal, 1)
	// kill (no param) default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall. SIGKILL but can't be a catch, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("server Shutdown.")
	}
	// catching ctx.Done(). timeout of 5 seconds.
	select {
	case <-ctx.Done():
		// Nothing for now
	}
	log.Info().Msg("server exiting...")
}
