package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"guia/internal/adapters/geocode/nominatim"
	"guia/internal/adapters/ibge"
	"guia/internal/core/address"
	"guia/internal/platform/config"
	"guia/internal/platform/logger"
)

// output is what the lookup prints: the raw display line, the normalized
// address, and the expanded state when resolvable
type output struct {
	DisplayName string          `json:"display_name"`
	Address     address.Address `json:"address"`
	State       *ibge.State     `json:"state,omitempty"`
}

func main() {
	root := config.New()
	l := logger.Get()

	var (
		fLat     = flag.Float64("lat", 0, "latitude (required)")
		fLon     = flag.Float64("lon", 0, "longitude (required)")
		fTimeout = flag.Duration("timeout", 30*time.Second, "overall lookup timeout")
		fRaw     = flag.Bool("raw", false, "print the raw geocoder payload instead")
	)
	flag.Parse()

	if *fLat == 0 && *fLon == 0 {
		l.Fatal().Msg("guia-geocode: -lat and -lon are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *fTimeout)
	defer cancel()

	geoCfg := root.Prefix("NOMINATIM_")
	geo := nominatim.NewClient(nominatim.Options{
		BaseURL:   geoCfg.MayString("BASE_URL", ""),
		UserAgent: geoCfg.MayString("UA", "guia-geocode"),
		Email:     geoCfg.MayString("EMAIL", ""),
		Language:  geoCfg.MayString("LANG", "pt-BR"),
	})

	if *fRaw {
		raw, err := geo.Reverse(ctx, *fLat, *fLon)
		if err != nil {
			l.Fatal().Err(err).Msg("reverse geocode failed")
		}
		emit(l, raw)
		return
	}

	place, err := geo.ReversePlace(ctx, *fLat, *fLon)
	if err != nil {
		l.Fatal().Err(err).Msg("reverse geocode failed")
	}

	norm := address.New()
	a := norm.Normalize(map[string]any{
		"class":   place.Category,
		"type":    place.Type,
		"name":    place.Name,
		"address": place.Address,
	})

	out := output{DisplayName: place.DisplayName, Address: a}

	// expand the UF into its full record when we only got an abbreviation
	if uf := a.StateAbbreviation.Str(); uf != "" && !a.State.Present() {
		ic := ibge.NewClient(ibge.Options{})
		if st, err := ic.StateByAbbreviation(ctx, uf); err == nil {
			out.State = &st
		} else {
			l.Warn().Err(err).Str("uf", uf).Msg("state expansion failed")
		}
	}

	emit(l, out)
}

func emit(l *logger.Logger, v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		l.Fatal().Err(err).Msg("encode failed")
	}
}
