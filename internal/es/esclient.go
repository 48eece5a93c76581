package es

import (
	"fmt"
	"io"
	"log"

	"github.com/elastic/go-elasticsearch/v9"
)

func NewClient(url, username, password string) (*elasticsearch.Client, error) {
	log.Printf("Connecting to Elasticsearch at: %s", url)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  username,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to get Elasticsearch info: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("Elasticsearch error: %s: %s", res.Status(), body)
	}

	log.Println("Successfully connected to Elasticsearch")
	return client, nil
}
