// Package translate layers per-language translations over stored turns
// without ever touching the original content.
package translate

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Waseeq-Zafar/Agri-Help-sub000/domain"
	"github.com/Waseeq-Zafar/Agri-Help-sub000/session"
)

// Translator is the remote translation capability. *agentclient.Client
// satisfies it.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (domain.TranslationResult, error)
}

// Overlay translates individual turns on demand and stores the result on the
// turn's translation map. Original content is immutable; a failed translation
// stores a marked placeholder so the client is never left waiting. Every
// request re-fetches and overwrites the stored entry, so a placeholder from a
// failed attempt is repaired the next time the user asks.
type Overlay struct {
	sessions   *session.Store
	translator Translator
	log        zerolog.Logger
}

func NewOverlay(sessions *session.Store, translator Translator, log zerolog.Logger) *Overlay {
	return &Overlay{
		sessions:   sessions,
		translator: translator,
		log:        log.With().Str("component", "translate").Logger(),
	}
}

// Translate returns the turn's text in targetLang, fetching a fresh
// translation and overwriting any stored entry (last write wins). A turn
// already in targetLang is returned as-is.
func (o *Overlay) Translate(ctx context.Context, conversationID, turnID, targetLang string) (string, error) {
	turn, err := o.sessions.Turn(conversationID, turnID)
	if err != nil {
		return "", err
	}
	if turn.Language == targetLang {
		return turn.Content, nil
	}

	text := o.fetch(ctx, turn.Content, targetLang)
	if err := o.sessions.SetTranslation(conversationID, turnID, targetLang, text); err != nil {
		return "", err
	}
	return text, nil
}

// fetch calls the remote capability and degrades to a visible placeholder on
// any failure; the caller always gets something renderable back.
func (o *Overlay) fetch(ctx context.Context, content, targetLang string) string {
	res, err := o.translator.Translate(ctx, content, targetLang)
	if err != nil {
		o.log.Warn().Err(err).Str("target_lang", targetLang).Msg("translation call failed")
		return unavailable(content)
	}
	if !res.Success || res.TranslatedText == "" {
		o.log.Warn().Str("target_lang", targetLang).Str("remote_error", res.Error).Msg("translation rejected")
		return unavailable(content)
	}
	return res.TranslatedText
}

func unavailable(content string) string {
	return fmt.Sprintf("[Translation unavailable] %s", content)
}
