package main

import (
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/miga-registro/registry-api/internal/auth"
	"github.com/miga-registro/registry-api/internal/config"
	"github.com/miga-registro/registry-api/internal/database"
	"github.com/miga-registro/registry-api/internal/handlers"
	"github.com/miga-registro/registry-api/internal/logger"
	"github.com/miga-registro/registry-api/internal/notifier"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	log, err := logger.New(cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db := database.Connect(cfg)

	var registryNotifier notifier.Notifier
	if cfg.DiscordBotToken != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			log.Warn("discord notifier not initialized", zap.Error(err))
		} else {
			registryNotifier = notifier.NewDiscordNotifier(session, cfg.DiscordChannelID)
		}
	}

	authHandler := auth.NewAuthHandler(cfg, db)
	h := &handlers.Handlers{
		Auth:           authHandler,
		Users:          handlers.NewUserHandler(db, authHandler),
		Persons:        handlers.NewPersonHandler(db),
		Sacraments:     handlers.NewSacramentHandler(db),
		Types:          handlers.NewSacramentTypeHandler(db),
		Roles:          handlers.NewCeremonialRoleHandler(db),
		Parishes:       handlers.NewParishHandler(db),
		Participations: handlers.NewParticipationHandler(db),
		Marriages:      handlers.NewMarriageDetailHandler(db),
		Proposals:      handlers.NewProposalHandler(db, registryNotifier),
		Comments:       handlers.NewCommentHandler(db),
		Password:       handlers.NewPasswordHandler(db, registryNotifier, cfg.PasswordResetURLBase, cfg.ResetTokenTTLMinutes),
		Audit:          handlers.NewAuditLogHandler(db),
	}

	r := chi.NewRouter()
	handlers.RegisterRoutes(r, db, cfg, h)

	log.Info("starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
