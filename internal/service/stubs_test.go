package service

import (
	"context"

	"skillswap/internal/models"
	"skillswap/internal/repository"
)

type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

type profileRepoStub struct {
	getByIDFn            func(context.Context, uint) (*models.Profile, error)
	getOrCreateForUserFn func(context.Context, uint) (*models.Profile, error)
	createFn             func(context.Context, *models.Profile) error
	updateFn             func(context.Context, *models.Profile) error
	listFn               func(context.Context, int, int) ([]models.Profile, error)
}

func (s *profileRepoStub) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	return s.getByIDFn(ctx, id)
}
func (s *profileRepoStub) GetOrCreateForUser(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getOrCreateForUserFn(ctx, userID)
}
func (s *profileRepoStub) Create(ctx context.Context, profile *models.Profile) error {
	return s.createFn(ctx, profile)
}
func (s *profileRepoStub) Update(ctx context.Context, profile *models.Profile) error {
	return s.updateFn(ctx, profile)
}
func (s *profileRepoStub) List(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	return s.listFn(ctx, limit, offset)
}

type skillRepoStub struct {
	createFn             func(context.Context, *models.Skill) error
	getByIDFn            func(context.Context, uint) (*models.Skill, error)
	updateFn             func(context.Context, *models.Skill) error
	deleteFn             func(context.Context, uint) error
	listFn               func(context.Context, int, int) ([]models.Skill, error)
	listByOwnerFn        func(context.Context, uint) ([]models.Skill, error)
	listExcludingOwnerFn func(context.Context, uint) ([]models.Skill, error)
}

func (s *skillRepoStub) Create(ctx context.Context, skill *models.Skill) error {
	return s.createFn(ctx, skill)
}
func (s *skillRepoStub) GetByID(ctx context.Context, id uint) (*models.Skill, error) {
	return s.getByIDFn(ctx, id)
}
func (s *skillRepoStub) Update(ctx context.Context, skill *models.Skill) error {
	return s.updateFn(ctx, skill)
}
func (s *skillRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *skillRepoStub) List(ctx context.Context, limit, offset int) ([]models.Skill, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *skillRepoStub) ListByOwner(ctx context.Context, userID uint) ([]models.Skill, error) {
	return s.listByOwnerFn(ctx, userID)
}
func (s *skillRepoStub) ListExcludingOwner(ctx context.Context, userID uint) ([]models.Skill, error) {
	return s.listExcludingOwnerFn(ctx, userID)
}

type requestRepoStub struct {
	createFn          func(context.Context, *models.ServiceRequest) error
	getByIDFn         func(context.Context, uint) (*models.ServiceRequest, error)
	listByRequesterFn func(context.Context, uint) ([]models.ServiceRequest, error)
	listByProviderFn  func(context.Context, uint, int) ([]models.ServiceRequest, error)
	feedFn            func(context.Context, repository.FeedQuery) ([]models.ServiceRequest, error)
	updateStatusFn    func(context.Context, uint, models.RequestStatus, models.RequestStatus) (bool, error)
}

func (s *requestRepoStub) Create(ctx context.Context, req *models.ServiceRequest) error {
	return s.createFn(ctx, req)
}
func (s *requestRepoStub) GetByID(ctx context.Context, id uint) (*models.ServiceRequest, error) {
	return s.getByIDFn(ctx, id)
}
func (s *requestRepoStub) ListByRequester(ctx context.Context, userID uint) ([]models.ServiceRequest, error) {
	return s.listByRequesterFn(ctx, userID)
}
func (s *requestRepoStub) ListByProvider(ctx context.Context, userID uint, limit int) ([]models.ServiceRequest, error) {
	return s.listByProviderFn(ctx, userID, limit)
}
func (s *requestRepoStub) Feed(ctx context.Context, q repository.FeedQuery) ([]models.ServiceRequest, error) {
	return s.feedFn(ctx, q)
}
func (s *requestRepoStub) UpdateStatus(ctx context.Context, id uint, from, to models.RequestStatus) (bool, error) {
	return s.updateStatusFn(ctx, id, from, to)
}

type reviewRepoStub struct {
	createFn  func(context.Context, *models.Review) error
	summaryFn func(context.Context, uint) (*models.RatingSummary, error)
}

func (s *reviewRepoStub) Create(ctx context.Context, review *models.Review) error {
	return s.createFn(ctx, review)
}
func (s *reviewRepoStub) Summary(ctx context.Context, userID uint) (*models.RatingSummary, error) {
	return s.summaryFn(ctx, userID)
}

type chatRepoStub struct {
	createRoomFn       func(context.Context, *models.ChatRoom) error
	getRoomFn          func(context.Context, uint) (*models.ChatRoom, error)
	listRoomsForUserFn func(context.Context, uint) ([]models.ChatRoom, error)
	createMessageFn    func(context.Context, *models.ChatMessage) error
	listMessagesFn     func(context.Context, uint, int, int) ([]models.ChatMessage, error)
}

func (s *chatRepoStub) CreateRoom(ctx context.Context, room *models.ChatRoom) error {
	return s.createRoomFn(ctx, room)
}
func (s *chatRepoStub) GetRoom(ctx context.Context, id uint) (*models.ChatRoom, error) {
	return s.getRoomFn(ctx, id)
}
func (s *chatRepoStub) ListRoomsForUser(ctx context.Context, userID uint) ([]models.ChatRoom, error) {
	return s.listRoomsForUserFn(ctx, userID)
}
func (s *chatRepoStub) CreateMessage(ctx context.Context, msg *models.ChatMessage) error {
	return s.createMessageFn(ctx, msg)
}
func (s *chatRepoStub) ListMessages(ctx context.Context, roomID uint, limit, offset int) ([]models.ChatMessage, error) {
	return s.listMessagesFn(ctx, roomID, limit, offset)
}

// memRequestRepo keeps requests in a map so lifecycle tests can observe
// what was written.
type memRequestRepo struct {
	requestRepoStub
	rows map[uint]*models.ServiceRequest
}

func newMemRequestRepo(rows ...*models.ServiceRequest) *memRequestRepo {
	m := &memRequestRepo{rows: map[uint]*models.ServiceRequest{}}
	for _, r := range rows {
		m.rows[r.ID] = r
	}
	m.getByIDFn = func(_ context.Context, id uint) (*models.ServiceRequest, error) {
		r, ok := m.rows[id]
		if !ok {
			return nil, models.NewNotFoundError("ServiceRequest", id)
		}
		cp := *r
		return &cp, nil
	}
	m.updateStatusFn = func(_ context.Context, id uint, from, to models.RequestStatus) (bool, error) {
		r, ok := m.rows[id]
		if !ok || r.Status != from {
			return false, nil
		}
		r.Status = to
		return true, nil
	}
	m.createFn = func(_ context.Context, r *models.ServiceRequest) error {
		r.ID = uint(len(m.rows) + 1)
		cp := *r
		m.rows[r.ID] = &cp
		return nil
	}
	return m
}
