// Package seed populates a fresh store with the baseline records the widget
// needs to be usable on first boot: a default widget configuration and a
// small starter FAQ. Seeding goes through the services so the same
// validation applies as on the live write path.
package seed

import (
	"context"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/sigmalab/assistant-backend/internal/repo"
	"github.com/sigmalab/assistant-backend/internal/services"
)

// DefaultWidgetName is the widget configuration row created on first boot.
const DefaultWidgetName = "default"

func strPtr(s string) *string { return &s }

// Run seeds the default widget configuration and, when the knowledge base is
// empty, the starter FAQ entries. It is idempotent: the widget upsert leaves
// existing values alone for fields it does not set again, and FAQ rows are
// only inserted into an empty table.
func Run(ctx context.Context, db *gorm.DB) error {
	settings := &services.SettingsService{DB: db}
	knowledge := &services.KnowledgeService{DB: db}

	if _, err := settings.SetWidgetConfig(ctx, DefaultWidgetName, services.WidgetUpdate{
		WelcomeMessage: strPtr("Здравствуйте! Чем могу помочь?"),
		BotName:        strPtr("Помощник"),
		PrimaryColor:   strPtr("#4CAF50"),
	}); err != nil {
		return err
	}
	log.Info().Str("widget", DefaultWidgetName).Msg("widget configuration seeded")

	count, _, err := repo.KnowledgeStats(ctx, db)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Info().Int64("entries", count).Msg("knowledge base already populated, skipping FAQ seed")
		return nil
	}

	faq := []services.AddEntryInput{
		{
			Question: "Как оформить заказ?",
			Answer:   "Чтобы оформить заказ, добавьте товары в корзину и нажмите кнопку «Оформить заказ». Затем заполните контактные данные и выберите способ доставки.",
			Category: "orders",
			Keywords: "заказ",
		},
		{
			Question: "Способы оплаты?",
			Answer:   "Мы принимаем оплату банковскими картами, электронными кошельками и наличными при получении.",
			Category: "payment",
			Keywords: "оплата",
		},
		{
			Question: "Сроки доставки?",
			Answer:   "Доставка по городу занимает 1-2 дня, по стране — от 3 до 7 дней в зависимости от региона.",
			Category: "delivery",
			Keywords: "доставка",
		},
	}
	for _, in := range faq {
		id, err := knowledge.AddEntry(ctx, in)
		if err != nil {
			return err
		}
		log.Info().Uint("id", id).Str("question", in.Question).Msg("FAQ entry seeded")
	}
	return nil
}
