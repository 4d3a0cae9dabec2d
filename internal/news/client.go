package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rgehrsitz/taxgo/internal/config"
	"github.com/rgehrsitz/taxgo/internal/domain"
)

// ErrMissingAPIKey is returned when no news API key is configured
var ErrMissingAPIKey = errors.New("news API key not configured")

// TaxQuery is the search expression sent to the news service
const TaxQuery = `(tax OR taxation OR "tax policy" OR "tax reform" OR "tax laws" OR "tax rates" OR "income tax" OR "corporate tax" OR "tax system")`

// Config holds the news client settings
type Config struct {
	APIKey   string        `env:"TAXGO_NEWS_API_KEY"`
	BaseURL  string        `env:"TAXGO_NEWS_BASE_URL" envDefault:"https://newsapi.org/v2"`
	Timeout  time.Duration `env:"TAXGO_NEWS_TIMEOUT" envDefault:"10s"`
	PageSize int           `env:"TAXGO_NEWS_PAGE_SIZE" envDefault:"6"`
}

// LoadConfig reads Config from the environment
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Client fetches tax headlines from a NewsAPI-compatible service
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a client. A nil httpClient gets one with cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 6
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, http: httpClient}
}

type everythingResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Author      string    `json:"author"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		URLToImage  string    `json:"urlToImage"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

// FetchTaxNews returns the most recent English-language tax articles
func (c *Client) FetchTaxNews(ctx context.Context) ([]domain.Article, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	q := url.Values{}
	q.Set("q", TaxQuery)
	q.Set("language", "en")
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", strconv.Itoa(c.cfg.PageSize))
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/everything?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build news request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch news: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read news response: %w", err)
	}

	var payload everythingResponse
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
			return nil, fmt.Errorf("news service returned %d: %s", resp.StatusCode, payload.Message)
		}
		return nil, fmt.Errorf("news service returned %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode news response: %w", err)
	}
	if payload.Status == "error" {
		return nil, fmt.Errorf("news service error %s: %s", payload.Code, payload.Message)
	}

	articles := make([]domain.Article, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		if a.Title == "" || a.Title == "[Removed]" {
			continue
		}
		articles = append(articles, domain.Article{
			Source:      a.Source.Name,
			Author:      a.Author,
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			PublishedAt: a.PublishedAt,
		})
	}
	return articles, nil
}
