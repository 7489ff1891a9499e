package notifier

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/miga-registro/registry-api/internal/logger"
	"github.com/miga-registro/registry-api/internal/models"
	"go.uber.org/zap"
)

// Notifier fans registry events out to the parish operations channel.
// Delivery is best-effort; callers log failures and move on.
type Notifier interface {
	NotifyProposal(proposal models.Proposal) error
	NotifyPasswordReset(maskedEmail string, expiresAt time.Time) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

func (n *DiscordNotifier) NotifyProposal(proposal models.Proposal) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	message := fmt.Sprintf("📋 **Nueva propuesta ciudadana** (#%d)\n%s\n**Fecha:** %s",
		proposal.ID,
		proposal.Text,
		proposal.Date.Format("2006-01-02 15:04"),
	)

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		logger.L().Warn("failed to send discord message", zap.Error(err))
		return err
	}

	return nil
}

func (n *DiscordNotifier) NotifyPasswordReset(maskedEmail string, expiresAt time.Time) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	message := fmt.Sprintf("🔑 **Solicitud de restablecimiento de contraseña**\n**Cuenta:** %s\n**Expira:** %s",
		maskedEmail,
		expiresAt.Format("2006-01-02 15:04"),
	)

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		logger.L().Warn("failed to send discord message", zap.Error(err))
		return err
	}

	return nil
}
