package bootstrap

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/mbeecher/beerworks/internal/domain"
	"github.com/mbeecher/beerworks/internal/logger"
)

type BeerStore interface {
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, b domain.Beer) (domain.Beer, error)
}

// LoadCSV parses a beer seed file with header
// name,style,upc,quantity_on_hand,price. Rows with an unknown style or a
// bad price are skipped, not fatal.
func LoadCSV(path string, log *logger.Logger) ([]domain.Beer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil { // header
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var out []domain.Beer
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) < 5 {
			continue
		}
		style := domain.ParseStyle(rec[1])
		if style == "" {
			log.Warn("skipping seed row with unknown style", "name", rec[0], "style", rec[1])
			continue
		}
		price, err := decimal.NewFromString(rec[4])
		if err != nil {
			log.Warn("skipping seed row with bad price", "name", rec[0], "price", rec[4])
			continue
		}
		var qoh *int32
		if n, err := strconv.Atoi(rec[3]); err == nil {
			v := int32(n)
			qoh = &v
		}
		out = append(out, domain.Beer{
			Name:           rec[0],
			Style:          style,
			UPC:            rec[2],
			QuantityOnHand: qoh,
			Price:          price,
		})
	}
	return out, nil
}

// Seed imports the CSV when the beer table is empty. Safe to run on every
// startup.
func Seed(ctx context.Context, store BeerStore, path string, log *logger.Logger) error {
	if path == "" {
		return nil
	}
	n, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	beersFromCSV, err := LoadCSV(path, log)
	if err != nil {
		return err
	}
	for _, b := range beersFromCSV {
		if _, err := store.Insert(ctx, b); err != nil {
			return err
		}
	}
	log.Info("seeded beers from csv", "path", path, "count", len(beersFromCSV))
	return nil
}
