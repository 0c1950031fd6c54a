package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/repository"
	"github.com/inkwell-cms/inkwell/pkg/storage"
)

// fakeUserRepo is an in-memory UserRepository. It hands out copies so tests
// observe only what Save actually wrote back.
type fakeUserRepo struct {
	mu    sync.Mutex
	users []*model.User
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	repo := &fakeUserRepo{}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		repo.users = append(repo.users, cloneUser(u))
	}
	return repo
}

func cloneUser(u *model.User) *model.User {
	c := *u
	if u.ResetToken != nil {
		token := *u.ResetToken
		c.ResetToken = &token
	}
	if u.ResetTokenExpiry != nil {
		expiry := *u.ResetTokenExpiry
		c.ResetTokenExpiry = &expiry
	}
	return &c
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users = append(r.users, cloneUser(user))
	return nil
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) FindByResetToken(_ context.Context, token string, now time.Time) (*model.User, error) {
	return r.find(func(u *model.User) bool {
		return u.ResetToken != nil && *u.ResetToken == token &&
			u.ResetTokenExpiry != nil && !u.ResetTokenExpiry.Before(now)
	})
}

func (r *fakeUserRepo) Save(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, u := range r.users {
		if u.ID == user.ID {
			r.users[i] = cloneUser(user)
			return nil
		}
	}
	r.users = append(r.users, cloneUser(user))
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeUserRepo) find(match func(*model.User) bool) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// fakePostRepo is an in-memory PostRepository mirroring the filter semantics
// of the real paginated queries.
type fakePostRepo struct {
	mu    sync.Mutex
	posts []*model.Post
}

var _ repository.PostRepository = (*fakePostRepo)(nil)

func newFakePostRepo(posts ...*model.Post) *fakePostRepo {
	repo := &fakePostRepo{}
	for _, p := range posts {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		repo.posts = append(repo.posts, clonePost(p))
	}
	return repo
}

func clonePost(p *model.Post) *model.Post {
	c := *p
	c.Categories = append([]model.CategoryRef(nil), p.Categories...)
	c.Tags = append([]model.Tag(nil), p.Tags...)
	return &c
}

func (r *fakePostRepo) Create(_ context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	r.posts = append(r.posts, clonePost(post))
	return nil
}

func (r *fakePostRepo) FindAll(_ context.Context) ([]*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*model.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, clonePost(p))
	}
	return out, nil
}

func (r *fakePostRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Post, error) {
	return r.find(func(p *model.Post) bool { return p.ID == id })
}

func (r *fakePostRepo) FindByTitle(_ context.Context, title string) (*model.Post, error) {
	return r.find(func(p *model.Post) bool { return p.Title == title })
}

func (r *fakePostRepo) FindByAnyIdentifier(_ context.Context, id *uuid.UUID, title, slug string) (*model.Post, error) {
	post, err := r.find(func(p *model.Post) bool {
		if id != nil && p.ID == *id {
			return true
		}
		return (title != "" && p.Title == title) || (slug != "" && p.Slug == slug)
	})
	if err != nil {
		return nil, nil
	}
	return post, nil
}

func (r *fakePostRepo) Paginate(_ context.Context, filter repository.PostFilter, page, limit int) ([]*model.Post, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*model.Post
	for _, p := range r.posts {
		if matchesFilter(p, filter) {
			matched = append(matched, clonePost(p))
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))

	start := (page - 1) * limit
	if start >= len(matched) {
		return []*model.Post{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], total, nil
}

func matchesFilter(p *model.Post, filter repository.PostFilter) bool {
	if filter.Status != nil && p.Status != *filter.Status {
		return false
	}
	if filter.AuthorID != nil && p.AuthorID != *filter.AuthorID {
		return false
	}
	if filter.CategoryID != nil || filter.CategoryName != "" {
		found := false
		for _, c := range p.Categories {
			if (filter.CategoryID != nil && c.ID == *filter.CategoryID) || (filter.CategoryName != "" && c.Name == filter.CategoryName) {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if filter.TagValue != "" {
		found := false
		for _, tag := range p.Tags {
			if tag.Value == filter.TagValue {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if filter.Search != "" {
		term := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(p.Title), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) &&
			!matchesTagSearch(p.Tags, term) {
			return false
		}
	}
	return true
}

func matchesTagSearch(tags []model.Tag, term string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag.Value), term) {
			return true
		}
	}
	return false
}

func (r *fakePostRepo) CountByAuthor(_ context.Context, authorID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

func (r *fakePostRepo) Save(_ context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.posts {
		if p.ID == post.ID {
			r.posts[i] = clonePost(post)
			return nil
		}
	}
	r.posts = append(r.posts, clonePost(post))
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.posts {
		if p.ID == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakePostRepo) find(match func(*model.Post) bool) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.posts {
		if match(p) {
			return clonePost(p), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePostRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.posts)
}

// fakeCategoryRepo is an in-memory CategoryRepository.
type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories []*model.Category
}

var _ repository.CategoryRepository = (*fakeCategoryRepo)(nil)

func newFakeCategoryRepo(categories ...*model.Category) *fakeCategoryRepo {
	repo := &fakeCategoryRepo{}
	for _, c := range categories {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		repo.categories = append(repo.categories, c)
	}
	return repo
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	copied := *category
	r.categories = append(r.categories, &copied)
	return nil
}

func (r *fakeCategoryRepo) FindAll(_ context.Context) ([]*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	return r.find(func(c *model.Category) bool { return c.ID == id })
}

func (r *fakeCategoryRepo) FindByName(_ context.Context, name string) (*model.Category, error) {
	return r.find(func(c *model.Category) bool { return c.Name == name })
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.categories {
		if c.ID == id {
			r.categories = append(r.categories[:i], r.categories[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeCategoryRepo) find(match func(*model.Category) bool) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.categories {
		if match(c) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// fakeMailer records every reset email it was asked to send.
type fakeMailer struct {
	mu    sync.Mutex
	sends []sentMail
}

type sentMail struct {
	to    string
	token string
}

func (m *fakeMailer) SendPasswordReset(to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sends = append(m.sends, sentMail{to: to, token: token})
	return nil
}

func (m *fakeMailer) sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]sentMail(nil), m.sends...)
}

// fakeImageStorage hands out deterministic URLs and records deletions.
type fakeImageStorage struct {
	mu      sync.Mutex
	uploads int
	deleted []string
}

var _ storage.ImageStorage = (*fakeImageStorage)(nil)

func (s *fakeImageStorage) UploadImage(_ context.Context, _ io.Reader, folder, fileName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.uploads++
	return fmt.Sprintf("https://img.example.com/%s/%d-%s", folder, s.uploads, fileName), nil
}

func (s *fakeImageStorage) DeleteImage(_ context.Context, fileURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleted = append(s.deleted, fileURL)
	return nil
}

func (s *fakeImageStorage) deletions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.deleted...)
}
