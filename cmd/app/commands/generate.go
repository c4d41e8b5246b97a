package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/allisson/cardvault/internal/app"
	"github.com/allisson/cardvault/internal/cards/domain"
	"github.com/allisson/cardvault/internal/cards/generator"
	cardsUsecase "github.com/allisson/cardvault/internal/cards/usecase"
	"github.com/allisson/cardvault/internal/config"
)

// RunGenerate synthesizes card records and writes them to the output. With
// save enabled the cards are also inserted into the inventory store and the
// saved/duplicates partition is reported.
func RunGenerate(
	ctx context.Context,
	count int,
	cardType string,
	format string,
	save bool,
	io IOTuple,
) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	gen, err := container.CardGenerator()
	if err != nil {
		return fmt.Errorf("failed to initialize generator: %w", err)
	}

	var useCase cardsUsecase.CardUseCase
	if save {
		useCase, err = container.CardUseCase()
		if err != nil {
			return fmt.Errorf("failed to initialize card use case: %w", err)
		}
	}

	return generateCards(ctx, gen, useCase, count, cardType, format, io)
}

// generateCards holds the command logic behind RunGenerate with all
// dependencies injected. A nil useCase skips persistence.
func generateCards(
	ctx context.Context,
	gen *generator.Generator,
	useCase cardsUsecase.CardUseCase,
	count int,
	cardType string,
	format string,
	io IOTuple,
) error {
	cards, err := gen.GenerateBatch(count, cardType)
	if err != nil {
		return err
	}

	if err := renderCards(cards, format, io); err != nil {
		return err
	}

	if useCase == nil {
		return nil
	}

	result, err := useCase.InsertBatch(ctx, cards)
	if err != nil {
		return fmt.Errorf("failed to save cards: %w", err)
	}

	fmt.Fprintf(io.Writer, "saved: %d, duplicates: %d\n", len(result.Saved), len(result.Duplicates))
	return nil
}

// renderCards writes the generated cards in the requested output format.
func renderCards(cards []*domain.Card, format string, io IOTuple) error {
	switch format {
	case "text":
		for _, card := range cards {
			fmt.Fprintf(io.Writer, "%s %s exp=%s/%s cvv=%s\n",
				card.CardType, card.CardNumber, card.ExpireMonth, card.ExpireYear, card.CVV)
		}
	case "pipe":
		for _, card := range cards {
			fmt.Fprintln(io.Writer, card.FormattedInfo)
		}
	case "json":
		encoder := json.NewEncoder(io.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(cardsToJSON(cards)); err != nil {
			return fmt.Errorf("failed to encode cards: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
	return nil
}

// jsonCard mirrors the API field names for CLI JSON output.
type jsonCard struct {
	CardType      string `json:"card_type"`
	CardNumber    string `json:"card_number"`
	ExpireMonth   string `json:"expire_month"`
	ExpireYear    string `json:"expire_year"`
	CVV           string `json:"cvv"`
	FormattedInfo string `json:"formatted_info"`
}

func cardsToJSON(cards []*domain.Card) []jsonCard {
	out := make([]jsonCard, 0, len(cards))
	for _, card := range cards {
		out = append(out, jsonCard{
			CardType:      string(card.CardType),
			CardNumber:    card.CardNumber,
			ExpireMonth:   card.ExpireMonth,
			ExpireYear:    card.ExpireYear,
			CVV:           card.CVV,
			FormattedInfo: card.FormattedInfo,
		})
	}
	return out
}
