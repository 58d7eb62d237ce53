package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Seeds a running server with sample trades so the history and receipt
// views have something to show during demos.

const serverAddress = "http://localhost:8080"

var (
	fishNames = []string{"광어", "우럭", "도미", "고등어", "갈치", "멍게", "전복"}
	customers = []string{"동해수산", "남포수산", "중앙상회", "제일식당", "바다마트"}
)

type cartItem struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Unit   string  `json:"unit"`
	Price  float64 `json:"price"`
	Weight float64 `json:"weight"`
}

type tradePayload struct {
	CustomerName string     `json:"customer_name"`
	Date         string     `json:"date"`
	Cart         []cartItem `json:"cart"`
}

func init() {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

func main() {
	client := &http.Client{Timeout: 10 * time.Second}

	count := 10
	failures := 0
	started := time.Now()

	for i := 0; i < count; i++ {
		payload := randomTrade(i)

		if err := postTrade(client, payload); err != nil {
			failures++
			log.Error().Err(err).Str("customer", payload.CustomerName).Msg("seed trade failed")
			continue
		}

		log.Info().
			Str("customer", payload.CustomerName).
			Int("items", len(payload.Cart)).
			Msg("seeded trade")
	}

	log.Info().
		Int("total", count).
		Int("failures", failures).
		Dur("elapsed", time.Since(started)).
		Msg("seeding complete")

	if failures > 0 {
		os.Exit(1)
	}
}

func randomTrade(n int) tradePayload {
	items := make([]cartItem, 0, 3)
	for j := 0; j < 1+rand.Intn(3); j++ {
		unit := "kg"
		weight := float64(1+rand.Intn(4)) + 0.5*float64(rand.Intn(2))
		if rand.Intn(3) == 0 {
			unit = "piece"
			weight = float64(1 + rand.Intn(10))
		}

		items = append(items, cartItem{
			ID:     time.Now().UnixMilli() + int64(j),
			Name:   fishNames[rand.Intn(len(fishNames))],
			Unit:   unit,
			Price:  float64((5 + rand.Intn(40)) * 1000),
			Weight: weight,
		})
	}

	date := time.Now().AddDate(0, 0, -n).Format("2006-01-02")

	return tradePayload{
		CustomerName: customers[rand.Intn(len(customers))],
		Date:         date,
		Cart:         items,
	}
}

func postTrade(client *http.Client, payload tradePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := client.Post(serverAddress+"/api/v1/trades", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
