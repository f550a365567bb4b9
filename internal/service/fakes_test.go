package service

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"knowledge-rag-be/internal/entity"
	"knowledge-rag-be/internal/repository/contract"
	"knowledge-rag-be/internal/repository/specification"
	"knowledge-rag-be/internal/repository/unitofwork"
	"knowledge-rag-be/pkg/events"
	"knowledge-rag-be/pkg/rag/search"

	"github.com/google/uuid"
)

// memoryStore backs the fake unit of work. Specifications are interpreted by
// type so the services run their real queries against it.
type memoryStore struct {
	mu            sync.Mutex
	items         map[uuid.UUID]*entity.KnowledgeItem
	collections   map[uuid.UUID]*entity.KnowledgeCollection
	members       []*entity.WorkspaceMember
	conversations map[uuid.UUID]*entity.AiConversation
	messages      []*entity.AiMessage
	jobs          map[uuid.UUID]*entity.EmbeddingJob
	commits       int
	rollbacks     int

	// beforeItemUpdate runs once, outside the lock, ahead of the next item
	// Update. It stands in for a worker committing between read and write.
	beforeItemUpdate func()
}

func (s *memoryStore) takeBeforeItemUpdate() func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	hook := s.beforeItemUpdate
	s.beforeItemUpdate = nil
	return hook
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		items:         map[uuid.UUID]*entity.KnowledgeItem{},
		collections:   map[uuid.UUID]*entity.KnowledgeCollection{},
		conversations: map[uuid.UUID]*entity.AiConversation{},
		jobs:          map[uuid.UUID]*entity.EmbeddingJob{},
	}
}

func (s *memoryStore) item(id uuid.UUID) *entity.KnowledgeItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it, ok := s.items[id]; ok {
		cp := *it
		return &cp
	}
	return nil
}

func (s *memoryStore) job(id uuid.UUID) *entity.EmbeddingJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[id]; ok {
		cp := *j
		return &cp
	}
	return nil
}

func (s *memoryStore) jobsFor(itemId uuid.UUID) []*entity.EmbeddingJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.EmbeddingJob
	for _, j := range s.jobs {
		if j.KnowledgeItemId == itemId {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out
}

type fakeFactory struct {
	store *memoryStore
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUow struct {
	store *memoryStore
	inTx  bool
}

func (u *fakeUow) Begin(ctx context.Context) error {
	if u.inTx {
		return errors.New("transaction already started")
	}
	u.inTx = true
	return nil
}

func (u *fakeUow) Commit() error {
	u.inTx = false
	u.store.mu.Lock()
	u.store.commits++
	u.store.mu.Unlock()
	return nil
}

func (u *fakeUow) Rollback() error {
	u.inTx = false
	u.store.mu.Lock()
	u.store.rollbacks++
	u.store.mu.Unlock()
	return nil
}

func (u *fakeUow) KnowledgeItemRepository() contract.KnowledgeItemRepository {
	return &fakeItemRepo{u.store}
}

func (u *fakeUow) KnowledgeCollectionRepository() contract.KnowledgeCollectionRepository {
	return &fakeCollectionRepo{u.store}
}

func (u *fakeUow) WorkspaceMemberRepository() contract.WorkspaceMemberRepository {
	return &fakeMemberRepo{u.store}
}

func (u *fakeUow) AiConversationRepository() contract.AiConversationRepository {
	return &fakeConversationRepo{u.store}
}

func (u *fakeUow) AiMessageRepository() contract.AiMessageRepository {
	return &fakeMessageRepo{u.store}
}

func (u *fakeUow) EmbeddingJobRepository() contract.EmbeddingJobRepository {
	return &fakeJobRepo{u.store}
}

// row is the subset of columns the specifications look at.
type row struct {
	id, workspaceId, userId, conversationId, knowledgeItemId uuid.UUID
	collectionId                                             *uuid.UUID
	typ, status, text                                        string
	archived, active                                         bool
	updatedAt                                                time.Time
}

func matches(r row, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if r.id != s.ID {
				return false
			}
		case specification.ByWorkspaceID:
			if r.workspaceId != s.WorkspaceID {
				return false
			}
		case specification.ByUserID:
			if r.userId != s.UserID {
				return false
			}
		case specification.ActiveMember:
			if !r.active {
				return false
			}
		case specification.ByConversationID:
			if r.conversationId != s.ConversationID {
				return false
			}
		case specification.ByKnowledgeItemID:
			if r.knowledgeItemId != s.KnowledgeItemID {
				return false
			}
		case specification.ByCollectionID:
			if r.collectionId == nil || *r.collectionId != s.CollectionID {
				return false
			}
		case specification.ByType:
			if r.typ != s.Type {
				return false
			}
		case specification.ByStatus:
			if r.status != s.Status {
				return false
			}
		case specification.ByStatuses:
			if !slices.Contains(s.Statuses, r.status) {
				return false
			}
		case specification.UpdatedBefore:
			if !r.updatedAt.Before(s.Time) {
				return false
			}
		case specification.IsArchived:
			if r.archived != s.Archived {
				return false
			}
		case specification.KnowledgeSearchQuery:
			if !strings.Contains(strings.ToLower(r.text), strings.ToLower(s.Query)) {
				return false
			}
		}
	}
	return true
}

func window(specs []specification.Specification, n int) (int, int) {
	start, end := 0, n
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.Pagination:
			start = s.Offset
			end = s.Offset + s.Limit
		case specification.Limit:
			end = start + s.N
		}
	}
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}
	return start, end
}

func itemRow(k *entity.KnowledgeItem) row {
	return row{
		id:           k.Id,
		workspaceId:  k.WorkspaceId,
		collectionId: k.CollectionId,
		typ:          k.Type,
		status:       k.Status,
		archived:     k.IsArchived,
		text:         k.Title + " " + k.Content + " " + k.Summary,
	}
}

type fakeItemRepo struct{ s *memoryStore }

func (r *fakeItemRepo) Create(ctx context.Context, item *entity.KnowledgeItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *item
	r.s.items[item.Id] = &cp
	return nil
}

func (r *fakeItemRepo) Update(ctx context.Context, item *entity.KnowledgeItem) error {
	if hook := r.s.takeBeforeItemUpdate(); hook != nil {
		hook()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.items[item.Id]
	if !ok {
		return nil
	}
	cp := *item
	cp.Status = old.Status
	cp.ProcessingError = old.ProcessingError
	cp.ProcessedAt = old.ProcessedAt
	cp.Embedding = old.Embedding
	cp.EmbeddingsModel = old.EmbeddingsModel
	cp.CreatedAt = old.CreatedAt
	r.s.items[item.Id] = &cp
	return nil
}

func (r *fakeItemRepo) Delete(ctx context.Context, workspaceId uuid.UUID, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if it, ok := r.s.items[id]; ok && it.WorkspaceId == workspaceId {
		delete(r.s.items, id)
	}
	return nil
}

func (r *fakeItemRepo) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32, model string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if it, ok := r.s.items[id]; ok {
		it.Embedding = embedding
		it.EmbeddingsModel = model
	}
	return nil
}

func (r *fakeItemRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string, processingError string, processedAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if it, ok := r.s.items[id]; ok {
		it.Status = status
		it.ProcessingError = processingError
		it.ProcessedAt = processedAt
	}
	return nil
}

func (r *fakeItemRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeItem, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeItemRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.KnowledgeItem
	for _, it := range r.s.items {
		if matches(itemRow(it), specs) {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	start, end := window(specs, len(out))
	return out[start:end], nil
}

func (r *fakeItemRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeItemRepo) DistinctValues(ctx context.Context, column string, specs ...specification.Specification) ([]string, error) {
	all, _ := r.FindAll(ctx, specs...)
	seen := map[string]bool{}
	var out []string
	for _, it := range all {
		v := it.Type
		if column == "status" {
			v = it.Status
		}
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out, nil
}

type fakeCollectionRepo struct{ s *memoryStore }

func (r *fakeCollectionRepo) Create(ctx context.Context, c *entity.KnowledgeCollection) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.collections[c.Id] = &cp
	return nil
}

func (r *fakeCollectionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeCollection, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeCollectionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeCollection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.KnowledgeCollection
	for _, c := range r.s.collections {
		if matches(row{id: c.Id, workspaceId: c.WorkspaceId}, specs) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCollectionRepo) CountItems(ctx context.Context, workspaceId uuid.UUID) ([]*entity.KnowledgeCollectionCount, error) {
	collections, _ := r.FindAll(ctx, specification.ByWorkspaceID{WorkspaceID: workspaceId})
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.KnowledgeCollectionCount, 0, len(collections))
	for _, c := range collections {
		var n int64
		for _, it := range r.s.items {
			if it.CollectionId != nil && *it.CollectionId == c.Id && !it.IsArchived {
				n++
			}
		}
		out = append(out, &entity.KnowledgeCollectionCount{Id: c.Id, Name: c.Name, ItemCount: n})
	}
	return out, nil
}

type fakeMemberRepo struct{ s *memoryStore }

func (r *fakeMemberRepo) Create(ctx context.Context, m *entity.WorkspaceMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *m
	r.s.members = append(r.s.members, &cp)
	return nil
}

func (r *fakeMemberRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WorkspaceMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.members {
		if matches(row{id: m.Id, workspaceId: m.WorkspaceId, userId: m.UserId, active: m.IsActive}, specs) {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeConversationRepo struct{ s *memoryStore }

func (r *fakeConversationRepo) Create(ctx context.Context, c *entity.AiConversation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.conversations[c.Id] = &cp
	return nil
}

func (r *fakeConversationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AiConversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.conversations {
		if matches(row{id: c.Id, workspaceId: c.WorkspaceId, userId: c.UserId}, specs) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeMessageRepo struct{ s *memoryStore }

func (r *fakeMessageRepo) Create(ctx context.Context, m *entity.AiMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *m
	r.s.messages = append(r.s.messages, &cp)
	return nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AiMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.AiMessage
	for _, m := range r.s.messages {
		if matches(row{id: m.Id, conversationId: m.ConversationId}, specs) {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type fakeJobRepo struct{ s *memoryStore }

func jobRow(j *entity.EmbeddingJob) row {
	updated := j.CreatedAt
	if j.UpdatedAt != nil {
		updated = *j.UpdatedAt
	}
	return row{id: j.Id, workspaceId: j.WorkspaceId, knowledgeItemId: j.KnowledgeItemId, status: j.Status, updatedAt: updated}
}

func (r *fakeJobRepo) Create(ctx context.Context, j *entity.EmbeddingJob) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *j
	r.s.jobs[j.Id] = &cp
	return nil
}

func (r *fakeJobRepo) Update(ctx context.Context, j *entity.EmbeddingJob) error {
	return r.Create(ctx, j)
}

// FindOne returns the newest matching job.
func (r *fakeJobRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.EmbeddingJob, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var found *entity.EmbeddingJob
	for _, j := range r.s.jobs {
		if !matches(jobRow(j), specs) {
			continue
		}
		if found == nil || j.CreatedAt.After(found.CreatedAt) {
			cp := *j
			found = &cp
		}
	}
	return found, nil
}

func (r *fakeJobRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EmbeddingJob, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.EmbeddingJob
	for _, j := range r.s.jobs {
		if matches(jobRow(j), specs) {
			cp := *j
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

type recordingEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingEvents) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingEvents) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type stubRetriever struct {
	params  search.SearchParams
	results []search.SearchResult
	similar []*entity.KnowledgeItem
	limit   int
	err     error
}

func (r *stubRetriever) SearchDocuments(ctx context.Context, params search.SearchParams) ([]search.SearchResult, error) {
	r.params = params
	return r.results, r.err
}

func (r *stubRetriever) FindSimilarDocuments(ctx context.Context, documentId, workspaceId uuid.UUID, limit int) ([]*entity.KnowledgeItem, error) {
	r.limit = limit
	return r.similar, r.err
}

type stubEmbedder struct {
	mu    sync.Mutex
	calls int
	texts []string
	err   error
}

func (p *stubEmbedder) Model() string { return "stub-embed" }

func (p *stubEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.texts = append(p.texts, texts...)
	if p.err != nil {
		return nil, p.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.6, 0.8}
	}
	return out, nil
}
