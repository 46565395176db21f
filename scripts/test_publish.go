// +build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/resource-store/internal/domain"
)

func ptr[T any](v T) *T {
	return &v
}

// Публикует тестовое событие импорта и ждет ответ воркера
func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	sync := flag.Bool("sync", false, "publish a provider sync request instead of a places batch")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	// Проверка подключения
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := domain.PlacesIngestEvent{
		RequestID: uuid.New(),
		Source:    "test_publish",
	}
	if *sync {
		event.Sync = &domain.SyncRequest{Lat: 37.7749, Lon: -122.4194, RadiusMeters: 2000, Types: []string{"shelter"}}
	} else {
		event.Places = []domain.PlaceSearchResult{
			{
				ID:               "test-glide-memorial",
				DisplayName:      domain.PlaceDisplayName{Text: "Glide Memorial Church", LanguageCode: "en"},
				FormattedAddress: "330 Ellis St, San Francisco, CA 94102",
				Location:         &domain.PlaceLocation{Latitude: 37.7853, Longitude: -122.4115},
				Types:            []string{"food_bank", "church", "point_of_interest"},
				Rating:           ptr(4.6),
				UserRatingCount:  ptr(812),
			},
			{
				ID:          "test-missing-location",
				DisplayName: domain.PlaceDisplayName{Text: "Skipped On Purpose"},
			},
		}
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: domain.StreamPlacesIngest,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published\n")
	fmt.Printf("   Stream: %s\n", domain.StreamPlacesIngest)
	fmt.Printf("   Message ID: %s\n", result)
	fmt.Printf("   Request ID: %s\n", event.RequestID)

	fmt.Printf("\nWaiting for response in %s...\n", domain.StreamPlacesDone)

	timeout := time.After(30 * time.Second)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			fmt.Println("Timeout waiting for response")
			return
		case <-ticker.C:
			results, err := client.XRead(ctx, &redis.XReadArgs{
				Streams: []string{domain.StreamPlacesDone, "0"},
				Count:   100,
				Block:   -1,
			}).Result()
			if err != nil && err != redis.Nil {
				continue
			}

			for _, stream := range results {
				for _, msg := range stream.Messages {
					dataStr, ok := msg.Values["data"].(string)
					if !ok {
						continue
					}

					var done domain.PlacesDoneEvent
					if err := json.Unmarshal([]byte(dataStr), &done); err != nil {
						continue
					}

					if done.RequestID == event.RequestID {
						pretty, _ := json.MarshalIndent(done, "", "  ")
						fmt.Printf("\nResponse received:\n%s\n", pretty)
						return
					}
				}
			}
		}
	}
}
