package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/shremyagupta/simple-ecommerce/internal/logging"
	"github.com/shremyagupta/simple-ecommerce/internal/models"
)

// Indexer mirrors catalog writes into the search index, best effort. A nil
// Indexer (or nil client) drops the write so the server runs without ES.
type Indexer struct {
	ES    *elasticsearch.Client
	Index string
	Log   *slog.Logger
}

func (ix *Indexer) IndexProduct(ctx context.Context, p *models.Product) {
	if ix == nil || ix.ES == nil {
		return
	}

	log := ix.Log
	if log == nil {
		log = logging.FromContext(ctx)
	}

	doc, err := json.Marshal(p)
	if err != nil {
		log.Error("marshal product for indexing", "err", err)
		return
	}

	res, err := ix.ES.Index(
		ix.Index,
		bytes.NewReader(doc),
		ix.ES.Index.WithDocumentID(fmt.Sprint(p.ID)),
		ix.ES.Index.WithContext(ctx),
	)
	if err != nil {
		log.Error("index product", "productID", p.ID, "err", err)
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		log.Error("index product", "productID", p.ID, "status", res.Status(), "body", string(body))
	}
}
