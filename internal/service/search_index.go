package service

import (
	"encoding/json"
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"

	"github.com/inkwell-cms/inkwell/internal/dto"
	"github.com/inkwell-cms/inkwell/internal/model"
)

// SearchIndex mirrors posts into a search engine for typeahead suggestions.
// Maintenance is best effort; the store remains the source of truth for the
// search operation proper.
type SearchIndex interface {
	IndexPost(post *model.Post) error
	RemovePost(id string) error
	Suggest(query string, limit int) ([]dto.PostSuggestion, error)
}

type meiliSearchIndex struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewMeiliSearchIndex(client meilisearch.ServiceManager) SearchIndex {
	s := &meiliSearchIndex{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndex()
	return s
}

func (s *meiliSearchIndex) initIndex() {
	filterable := []string{"status"}
	filterableInterface := make([]any, len(filterable))
	for i, v := range filterable {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index("posts").UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("Failed to update posts filterable attributes: %v", err)
	}

	sortable := []string{"created_at"}
	if _, err := s.client.Index("posts").UpdateSortableAttributes(&sortable); err != nil {
		log.Printf("Failed to update posts sortable attributes: %v", err)
	}
}

type meiliPostDoc struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status"`
	CreatedAt   int64    `json:"created_at"`
}

func (s *meiliSearchIndex) IndexPost(post *model.Post) error {
	tags := make([]string, 0, len(post.Tags))
	for _, tag := range post.Tags {
		tags = append(tags, tag.Value)
	}

	doc := meiliPostDoc{
		ID:          post.ID.String(),
		Title:       post.Title,
		Slug:        post.Slug,
		Description: post.Description,
		Content:     s.cleanContentForIndex(post.Content),
		Tags:        tags,
		Status:      string(post.Status),
		CreatedAt:   post.CreatedAt.Unix(),
	}

	_, err := s.client.Index("posts").AddDocuments([]meiliPostDoc{doc}, strPtr("id"))
	return err
}

func (s *meiliSearchIndex) RemovePost(id string) error {
	_, err := s.client.Index("posts").DeleteDocument(id)
	return err
}

func (s *meiliSearchIndex) Suggest(query string, limit int) ([]dto.PostSuggestion, error) {
	resp, err := s.client.Index("posts").Search(query, &meilisearch.SearchRequest{
		Limit:  int64(limit),
		Filter: fmt.Sprintf("status = %s", model.StatusPublish),
	})
	if err != nil {
		return nil, err
	}

	suggestions := make([]dto.PostSuggestion, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var suggestion dto.PostSuggestion
		if err := json.Unmarshal(raw, &suggestion); err != nil {
			continue
		}
		suggestions = append(suggestions, suggestion)
	}

	return suggestions, nil
}

// cleanContentForIndex strips markup before the content reaches the index.
func (s *meiliSearchIndex) cleanContentForIndex(content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	sanitized := s.sanitizer.Sanitize(content)
	cleanText := html.UnescapeString(sanitized)

	return strings.Join(strings.Fields(cleanText), " ")
}

func strPtr(s string) *string {
	return &s
}
