package service

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	"knowledge-rag-be/internal/constant"
	"knowledge-rag-be/internal/dto"
	"knowledge-rag-be/internal/entity"
	"knowledge-rag-be/internal/pkg/logger"
	"knowledge-rag-be/internal/repository/scope"
	"knowledge-rag-be/internal/repository/specification"
	"knowledge-rag-be/internal/repository/unitofwork"
	"knowledge-rag-be/pkg/rag/search"
	"knowledge-rag-be/pkg/utils"

	"github.com/google/uuid"
)

const (
	defaultListLimit  = 20
	maxSimilarLimit   = 50
	knowledgeLogScope = "KnowledgeService"
)

var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
	"type":      "type",
	"status":    "status",
}

type IRetriever interface {
	SearchDocuments(ctx context.Context, params search.SearchParams) ([]search.SearchResult, error)
	FindSimilarDocuments(ctx context.Context, documentId, workspaceId uuid.UUID, limit int) ([]*entity.KnowledgeItem, error)
}

type IKnowledgeService interface {
	List(ctx context.Context, workspaceId uuid.UUID, req *dto.ListKnowledgeItemsRequest) (*dto.ListKnowledgeItemsResponse, error)
	Create(ctx context.Context, workspaceId, userId uuid.UUID, req *dto.CreateKnowledgeItemRequest) (*dto.KnowledgeItemResponse, error)
	Show(ctx context.Context, workspaceId, id uuid.UUID) (*dto.KnowledgeItemResponse, error)
	Update(ctx context.Context, workspaceId uuid.UUID, req *dto.UpdateKnowledgeItemRequest) (*dto.KnowledgeItemResponse, error)
	// Delete archives the item unless permanent is set.
	Delete(ctx context.Context, workspaceId, id uuid.UUID, permanent bool) error
	Search(ctx context.Context, workspaceId uuid.UUID, req *dto.SearchKnowledgeRequest) (*dto.SearchKnowledgeResponse, error)
	Similar(ctx context.Context, workspaceId, id uuid.UUID, limit int) (*dto.SimilarKnowledgeResponse, error)
	GetEmbeddingJob(ctx context.Context, workspaceId, id uuid.UUID) (*dto.EmbeddingJobResponse, error)
	Reembed(ctx context.Context, workspaceId, id uuid.UUID) (*dto.EmbeddingJobResponse, error)
	// RequeueStaleJobs re-publishes pending or running jobs untouched for
	// olderThan and fails the ones with no attempts left. It returns how many
	// jobs were re-published.
	RequeueStaleJobs(ctx context.Context, olderThan time.Duration) (int, error)
}

type knowledgeService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	retriever        IRetriever
	logger           logger.ILogger
	maxAttempts      int
}

func NewKnowledgeService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	retriever IRetriever,
	log logger.ILogger,
	maxAttempts int,
) IKnowledgeService {
	if maxAttempts <= 0 {
		maxAttempts = constant.EmbeddingJobDefaultMaxAttempts
	}
	return &knowledgeService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		retriever:        retriever,
		logger:           log,
		maxAttempts:      maxAttempts,
	}
}

func (s *knowledgeService) List(ctx context.Context, workspaceId uuid.UUID, req *dto.ListKnowledgeItemsRequest) (*dto.ListKnowledgeItemsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.KnowledgeItemRepository()

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = defaultListLimit
	}

	specs := []specification.Specification{
		specification.ByWorkspaceID{WorkspaceID: workspaceId},
		specification.IsArchived{Archived: req.Archived},
	}
	if q := strings.TrimSpace(req.Search); q != "" {
		specs = append(specs, specification.KnowledgeSearchQuery{Query: q})
	}
	if req.Type != "" {
		specs = append(specs, specification.ByType{Type: req.Type})
	}
	if req.Status != "" {
		specs = append(specs, specification.ByStatus{Status: req.Status})
	}
	if req.CollectionId != "" {
		collectionId, err := uuid.Parse(req.CollectionId)
		if err != nil {
			return nil, constant.ErrCollectionNotFound
		}
		specs = append(specs, specification.ByCollectionID{CollectionID: collectionId})
	}

	total, err := repo.Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	column, ok := sortColumns[req.SortBy]
	if !ok {
		column = "created_at"
	}
	pageSpecs := append(specs,
		specification.OrderBy{Field: column, Desc: req.SortOrder != "asc"},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	items, err := repo.FindAll(ctx, pageSpecs...)
	if err != nil {
		return nil, err
	}

	filters, err := s.listFilters(ctx, uow, workspaceId)
	if err != nil {
		return nil, err
	}

	pages := int(math.Ceil(float64(total) / float64(limit)))
	res := &dto.ListKnowledgeItemsResponse{
		Items: toKnowledgeItemResponses(items, false),
		Pagination: dto.Pagination{
			Page:    page,
			Limit:   limit,
			Total:   total,
			Pages:   pages,
			HasNext: page < pages,
			HasPrev: page > 1,
		},
		Filters: *filters,
	}
	return res, nil
}

// listFilters reports the facets available among non-archived items.
func (s *knowledgeService) listFilters(ctx context.Context, uow unitofwork.UnitOfWork, workspaceId uuid.UUID) (*dto.KnowledgeFilters, error) {
	repo := uow.KnowledgeItemRepository()
	base := []specification.Specification{
		specification.ByWorkspaceID{WorkspaceID: workspaceId},
		specification.IsArchived{Archived: false},
	}

	types, err := repo.DistinctValues(ctx, "type", base...)
	if err != nil {
		return nil, err
	}
	statuses, err := repo.DistinctValues(ctx, "status", base...)
	if err != nil {
		return nil, err
	}
	counts, err := uow.KnowledgeCollectionRepository().CountItems(ctx, workspaceId)
	if err != nil {
		return nil, err
	}

	collections := make([]dto.CollectionFilter, 0, len(counts))
	for _, c := range counts {
		collections = append(collections, dto.CollectionFilter{Id: c.Id, Name: c.Name, ItemCount: c.ItemCount})
	}

	return &dto.KnowledgeFilters{
		Types:       nonNil(types),
		Statuses:    nonNil(statuses),
		Collections: collections,
	}, nil
}

func (s *knowledgeService) Create(ctx context.Context, workspaceId, userId uuid.UUID, req *dto.CreateKnowledgeItemRequest) (*dto.KnowledgeItemResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, constant.ErrEmptyTitle
	}
	itemType := strings.TrimSpace(req.Type)
	if !constant.IsKnowledgeType(itemType) {
		return nil, constant.ErrInvalidKnowledgeType
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if req.CollectionId != nil {
		if err := s.checkCollection(ctx, uow, workspaceId, *req.CollectionId); err != nil {
			return nil, err
		}
	}

	item := &entity.KnowledgeItem{
		Id:           uuid.New(),
		WorkspaceId:  workspaceId,
		CollectionId: req.CollectionId,
		CreatedBy:    userId,
		Title:        title,
		Type:         itemType,
		Status:       constant.KnowledgeStatusProcessing,
		SourceUrl:    strings.TrimSpace(req.SourceUrl),
		FileName:     req.FileName,
		FileSize:     req.FileSize,
		MimeType:     req.MimeType,
		Content:      utils.TruncateRunes(strings.TrimSpace(req.Content), constant.KnowledgeContentMaxLength),
		Summary:      strings.TrimSpace(req.Summary),
		Metadata:     req.Metadata,
		Tags:         req.Tags,
		CreatedAt:    time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err := uow.KnowledgeItemRepository().Create(ctx, item); err != nil {
		uow.Rollback()
		return nil, err
	}
	job, err := s.newJob(ctx, uow, item)
	if err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.dispatch(ctx, job)

	return toKnowledgeItemResponse(item, true), nil
}

func (s *knowledgeService) Show(ctx context.Context, workspaceId, id uuid.UUID) (*dto.KnowledgeItemResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	item, err := s.findItem(ctx, uow, workspaceId, id)
	if err != nil {
		return nil, err
	}
	return toKnowledgeItemResponse(item, true), nil
}

func (s *knowledgeService) Update(ctx context.Context, workspaceId uuid.UUID, req *dto.UpdateKnowledgeItemRequest) (*dto.KnowledgeItemResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	item, err := s.findItem(ctx, uow, workspaceId, req.Id)
	if err != nil {
		return nil, err
	}

	reembed := false
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, constant.ErrEmptyTitle
		}
		reembed = reembed || title != item.Title
		item.Title = title
	}
	if req.Type != nil {
		itemType := strings.TrimSpace(*req.Type)
		if !constant.IsKnowledgeType(itemType) {
			return nil, constant.ErrInvalidKnowledgeType
		}
		item.Type = itemType
	}
	if req.Content != nil {
		content := utils.TruncateRunes(strings.TrimSpace(*req.Content), constant.KnowledgeContentMaxLength)
		reembed = reembed || content != item.Content
		item.Content = content
	}
	if req.CollectionId != nil && (item.CollectionId == nil || *item.CollectionId != *req.CollectionId) {
		if err := s.checkCollection(ctx, uow, workspaceId, *req.CollectionId); err != nil {
			return nil, err
		}
		item.CollectionId = req.CollectionId
	}
	if req.Summary != nil {
		item.Summary = strings.TrimSpace(*req.Summary)
	}
	if req.SourceUrl != nil {
		item.SourceUrl = strings.TrimSpace(*req.SourceUrl)
	}
	if req.FileName != nil {
		item.FileName = *req.FileName
	}
	if req.MimeType != nil {
		item.MimeType = *req.MimeType
	}
	if req.Metadata != nil {
		item.Metadata = req.Metadata
	}
	if req.Tags != nil {
		item.Tags = req.Tags
	}
	if req.IsArchived != nil {
		item.IsArchived = *req.IsArchived
	}
	if req.IsFavorite != nil {
		item.IsFavorite = *req.IsFavorite
	}

	now := time.Now()
	item.UpdatedAt = &now
	if reembed {
		item.Status = constant.KnowledgeStatusProcessing
		item.ProcessingError = ""
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err := uow.KnowledgeItemRepository().Update(ctx, item); err != nil {
		uow.Rollback()
		return nil, err
	}
	var job *entity.EmbeddingJob
	if reembed {
		if err := uow.KnowledgeItemRepository().UpdateStatus(ctx, item.Id, constant.KnowledgeStatusProcessing, "", nil); err != nil {
			uow.Rollback()
			return nil, err
		}
		item.ProcessedAt = nil
		job, err = s.newJob(ctx, uow, item)
		if err != nil {
			uow.Rollback()
			return nil, err
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if job != nil {
		s.dispatch(ctx, job)
	}

	return toKnowledgeItemResponse(item, true), nil
}

func (s *knowledgeService) Delete(ctx context.Context, workspaceId, id uuid.UUID, permanent bool) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	item, err := s.findItem(ctx, uow, workspaceId, id)
	if err != nil {
		return err
	}

	if permanent {
		return uow.KnowledgeItemRepository().Delete(ctx, workspaceId, id)
	}

	now := time.Now()
	item.IsArchived = true
	item.UpdatedAt = &now
	return uow.KnowledgeItemRepository().Update(ctx, item)
}

func (s *knowledgeService) Search(ctx context.Context, workspaceId uuid.UUID, req *dto.SearchKnowledgeRequest) (*dto.SearchKnowledgeResponse, error) {
	results, err := s.retriever.SearchDocuments(ctx, search.SearchParams{
		Query:       req.Query,
		WorkspaceId: workspaceId,
		Limit:       req.Limit,
		Threshold:   req.Threshold,
		Filters: search.Filters{
			CollectionIds: req.Filters.CollectionIds,
			Types:         req.Filters.Types,
			Tags:          req.Filters.Tags,
		},
	})
	if err != nil {
		return nil, err
	}

	return &dto.SearchKnowledgeResponse{
		Query:   req.Query,
		Results: toSearchResultResponses(results),
		Total:   len(results),
	}, nil
}

func (s *knowledgeService) Similar(ctx context.Context, workspaceId, id uuid.UUID, limit int) (*dto.SimilarKnowledgeResponse, error) {
	if limit <= 0 {
		limit = search.DefaultSimilarLimit
	}
	if limit > maxSimilarLimit {
		limit = maxSimilarLimit
	}

	items, err := s.retriever.FindSimilarDocuments(ctx, id, workspaceId, limit)
	if err != nil {
		return nil, err
	}

	return &dto.SimilarKnowledgeResponse{
		SourceId: id,
		Items:    toKnowledgeItemResponses(items, false),
	}, nil
}

func (s *knowledgeService) GetEmbeddingJob(ctx context.Context, workspaceId, id uuid.UUID) (*dto.EmbeddingJobResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.findItem(ctx, uow, workspaceId, id); err != nil {
		return nil, err
	}

	job, err := uow.EmbeddingJobRepository().FindOne(ctx,
		specification.ByKnowledgeItemID{KnowledgeItemID: id},
		specification.ByWorkspaceID{WorkspaceID: workspaceId},
		specification.Scoped(scope.OrderByCreatedDesc),
	)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, constant.ErrEmbeddingJobNotFound
	}
	return toEmbeddingJobResponse(job), nil
}

func (s *knowledgeService) Reembed(ctx context.Context, workspaceId, id uuid.UUID) (*dto.EmbeddingJobResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	item, err := s.findItem(ctx, uow, workspaceId, id)
	if err != nil {
		return nil, err
	}
	if utils.PrepareEmbeddingText(item.Title, item.Content, constant.EmbeddingInputMaxLength) == "" {
		return nil, constant.ErrNothingToEmbed
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	err = uow.KnowledgeItemRepository().UpdateStatus(ctx, item.Id, constant.KnowledgeStatusProcessing, "", nil)
	if err != nil {
		uow.Rollback()
		return nil, err
	}
	job, err := s.newJob(ctx, uow, item)
	if err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.dispatch(ctx, job)

	return toEmbeddingJobResponse(job), nil
}

func (s *knowledgeService) RequeueStaleJobs(ctx context.Context, olderThan time.Duration) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	jobs, err := uow.EmbeddingJobRepository().FindAll(ctx,
		specification.ByStatuses{Statuses: []string{constant.EmbeddingJobStatusPending, constant.EmbeddingJobStatusRunning}},
		specification.UpdatedBefore{Time: time.Now().Add(-olderThan)},
		specification.Scoped(scope.OrderByCreatedAsc),
	)
	if err != nil {
		return 0, err
	}

	requeued := 0
	for _, job := range jobs {
		if job.Exhausted() {
			if err := s.abandon(ctx, uow, job); err != nil {
				return requeued, err
			}
			continue
		}
		s.dispatch(ctx, job)
		requeued++
	}

	if len(jobs) > 0 {
		s.logger.Info(knowledgeLogScope, "Stale embedding jobs swept", map[string]interface{}{
			"found":    len(jobs),
			"requeued": requeued,
		})
	}
	return requeued, nil
}

// abandon closes a job whose last attempt never reported back.
func (s *knowledgeService) abandon(ctx context.Context, uow unitofwork.UnitOfWork, job *entity.EmbeddingJob) error {
	now := time.Now()
	job.Status = constant.EmbeddingJobStatusFailed
	job.LastError = constant.ErrEmbeddingJobAbandoned.Error()
	job.FinishedAt = &now

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.EmbeddingJobRepository().Update(ctx, job); err != nil {
		uow.Rollback()
		return err
	}
	err := uow.KnowledgeItemRepository().UpdateStatus(ctx, job.KnowledgeItemId, constant.KnowledgeStatusError, job.LastError, &now)
	if err != nil {
		uow.Rollback()
		return err
	}
	return uow.Commit()
}

func (s *knowledgeService) findItem(ctx context.Context, uow unitofwork.UnitOfWork, workspaceId, id uuid.UUID) (*entity.KnowledgeItem, error) {
	item, err := uow.KnowledgeItemRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByWorkspaceID{WorkspaceID: workspaceId},
	)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, constant.ErrKnowledgeItemNotFound
	}
	return item, nil
}

func (s *knowledgeService) checkCollection(ctx context.Context, uow unitofwork.UnitOfWork, workspaceId, collectionId uuid.UUID) error {
	collection, err := uow.KnowledgeCollectionRepository().FindOne(ctx,
		specification.ByID{ID: collectionId},
		specification.ByWorkspaceID{WorkspaceID: workspaceId},
	)
	if err != nil {
		return err
	}
	if collection == nil {
		return constant.ErrCollectionNotFound
	}
	return nil
}

func (s *knowledgeService) newJob(ctx context.Context, uow unitofwork.UnitOfWork, item *entity.KnowledgeItem) (*entity.EmbeddingJob, error) {
	job := &entity.EmbeddingJob{
		Id:              uuid.New(),
		KnowledgeItemId: item.Id,
		WorkspaceId:     item.WorkspaceId,
		Status:          constant.EmbeddingJobStatusPending,
		MaxAttempts:     s.maxAttempts,
		CreatedAt:       time.Now(),
	}
	if err := uow.EmbeddingJobRepository().Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// dispatch hands a committed job to the worker. A publish failure leaves the
// job pending; the startup sweep or the reembed endpoint picks it up again.
func (s *knowledgeService) dispatch(ctx context.Context, job *entity.EmbeddingJob) {
	payload, err := json.Marshal(dto.EmbedKnowledgeItemMessage{JobId: job.Id})
	if err == nil {
		err = s.publisherService.Publish(ctx, payload)
	}
	if err != nil {
		s.logger.Warn(knowledgeLogScope, "Failed to enqueue embedding job", map[string]interface{}{
			"job_id":            job.Id.String(),
			"knowledge_item_id": job.KnowledgeItemId.String(),
			"error":             err.Error(),
		})
	}
}

func toKnowledgeItemResponse(item *entity.KnowledgeItem, withContent bool) *dto.KnowledgeItemResponse {
	res := &dto.KnowledgeItemResponse{
		Id:              item.Id,
		WorkspaceId:     item.WorkspaceId,
		CollectionId:    item.CollectionId,
		CreatedBy:       item.CreatedBy,
		Title:           item.Title,
		Type:            item.Type,
		Status:          item.Status,
		SourceUrl:       item.SourceUrl,
		FileName:        item.FileName,
		FileSize:        item.FileSize,
		MimeType:        item.MimeType,
		Summary:         item.Summary,
		Metadata:        item.Metadata,
		Tags:            nonNil(item.Tags),
		HasEmbedding:    item.HasEmbedding(),
		EmbeddingsModel: item.EmbeddingsModel,
		IsFavorite:      item.IsFavorite,
		IsArchived:      item.IsArchived,
		ProcessingError: item.ProcessingError,
		ProcessedAt:     item.ProcessedAt,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
	if withContent {
		res.Content = item.Content
	}
	if res.Metadata == nil {
		res.Metadata = map[string]interface{}{}
	}
	return res
}

func toKnowledgeItemResponses(items []*entity.KnowledgeItem, withContent bool) []*dto.KnowledgeItemResponse {
	res := make([]*dto.KnowledgeItemResponse, 0, len(items))
	for _, item := range items {
		res = append(res, toKnowledgeItemResponse(item, withContent))
	}
	return res
}

func toSearchResultResponses(results []search.SearchResult) []*dto.SearchResultResponse {
	res := make([]*dto.SearchResultResponse, 0, len(results))
	for _, r := range results {
		res = append(res, &dto.SearchResultResponse{
			Item:           toKnowledgeItemResponse(r.Item, false),
			RelevanceScore: r.RelevanceScore,
			Snippet:        r.Snippet,
		})
	}
	return res
}

func toEmbeddingJobResponse(job *entity.EmbeddingJob) *dto.EmbeddingJobResponse {
	return &dto.EmbeddingJobResponse{
		Id:              job.Id,
		KnowledgeItemId: job.KnowledgeItemId,
		Status:          job.Status,
		Attempts:        job.Attempts,
		MaxAttempts:     job.MaxAttempts,
		LastError:       job.LastError,
		StartedAt:       job.StartedAt,
		FinishedAt:      job.FinishedAt,
		CreatedAt:       job.CreatedAt,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
