package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/Skotchmaster/quickcart/internal/models"
)

const DefaultIndex = "products"

type ProductIndex struct {
	Client *elasticsearch.Client
	Index  string
	// Refresh makes writes visible to search immediately.
	Refresh bool
}

func NewProductIndex(client *elasticsearch.Client, index string) *ProductIndex {
	if index == "" {
		index = DefaultIndex
	}
	return &ProductIndex{Client: client, Index: index}
}

func (p *ProductIndex) IndexProduct(ctx context.Context, prod *models.Product) error {
	body, err := json.Marshal(prod)
	if err != nil {
		return err
	}

	opts := []func(*esapi.IndexRequest){
		p.Client.Index.WithContext(ctx),
		p.Client.Index.WithDocumentID(strconv.FormatUint(uint64(prod.ID), 10)),
	}
	if p.Refresh {
		opts = append(opts, p.Client.Index.WithRefresh("true"))
	}

	res, err := p.Client.Index(p.Index, bytes.NewReader(body), opts...)
	if err != nil {
		return fmt.Errorf("es: index product %d: %w", prod.ID, err)
	}
	defer res.Body.Close()
	return responseError("index product", res)
}

func (p *ProductIndex) DeleteProduct(ctx context.Context, id uint) error {
	res, err := p.Client.Delete(p.Index, strconv.FormatUint(uint64(id), 10), p.Client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es: delete product %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	return responseError("delete product", res)
}

func (p *ProductIndex) SearchProducts(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := p.Client.Search(
		p.Client.Search.WithContext(ctx),
		p.Client.Search.WithIndex(p.Index),
		p.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("es: search: %w", err)
	}
	defer res.Body.Close()
	if err := responseError("search", res); err != nil {
		return 0, nil, err
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("es: decode search: %w", err)
	}

	prods := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		prods[i] = hit.Source
	}
	return r.Hits.Total.Value, prods, nil
}

func responseError(op string, res *esapi.Response) error {
	if !res.IsError() {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	return fmt.Errorf("es: %s: %s: %s", op, res.Status(), body)
}
