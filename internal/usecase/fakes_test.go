package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"bhangari/internal/domain/entity"
	"bhangari/internal/domain/repository"
	"bhangari/internal/infrastructure/firebase"
	"bhangari/internal/infrastructure/imageproc"
	"bhangari/pkg/errors"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok {
		return errors.Conflict("User already exists")
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*entity.User)
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			cp := *u
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

// fakePickupRepo serializes transitions with one lock, like a Firestore
// transaction serializes conflicting writers.
type fakePickupRepo struct {
	mu       sync.Mutex
	requests map[string]*entity.PickupRequest
	logs     map[string][]*entity.PickupStatusLog
}

func newFakePickupRepo() *fakePickupRepo {
	return &fakePickupRepo{
		requests: make(map[string]*entity.PickupRequest),
		logs:     make(map[string][]*entity.PickupStatusLog),
	}
}

func (r *fakePickupRepo) put(req *entity.PickupRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *req
	r.requests[req.ID] = &cp
}

func (r *fakePickupRepo) Create(ctx context.Context, req *entity.PickupRequest, log *entity.PickupStatusLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[req.ID]; ok {
		return errors.Conflict("exists")
	}
	cp := *req
	r.requests[req.ID] = &cp
	if log != nil {
		log.RequestID = req.ID
		r.logs[req.ID] = append(r.logs[req.ID], log)
	}
	return nil
}

func (r *fakePickupRepo) GetByID(ctx context.Context, id string) (*entity.PickupRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, errors.NotFound("Pickup request", nil)
	}
	cp := *req
	return &cp, nil
}

func (r *fakePickupRepo) List(ctx context.Context, f repository.PickupListFilter) ([]*entity.PickupRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.PickupRequest
	for _, req := range r.requests {
		if f.UserID != "" && req.UserID != f.UserID {
			continue
		}
		if f.CollectorID != "" && req.CollectorID != f.CollectorID {
			continue
		}
		if f.Status != "" && req.Status != f.Status {
			continue
		}
		cp := *req
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	total := int64(len(out))
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			out = nil
		} else {
			out = out[f.Offset:]
		}
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (r *fakePickupRepo) Transition(ctx context.Context, id string, fn repository.TransitionFunc) (*entity.PickupRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.requests[id]
	if !ok {
		return nil, errors.NotFound("Pickup request", nil)
	}
	cp := *stored
	log, err := fn(&cp)
	if err != nil {
		return nil, err
	}
	r.requests[id] = &cp
	if log != nil {
		log.RequestID = id
		r.logs[id] = append(r.logs[id], log)
	}
	out := cp
	return &out, nil
}

func (r *fakePickupRepo) ListStatusLogs(ctx context.Context, requestID string) ([]*entity.PickupStatusLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.PickupStatusLog(nil), r.logs[requestID]...), nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	pickups *fakePickupRepo
	users   *fakeUserRepo
	reviews map[string]*entity.Review
}

func newFakeReviewRepo(pickups *fakePickupRepo, users *fakeUserRepo) *fakeReviewRepo {
	return &fakeReviewRepo{pickups: pickups, users: users, reviews: make(map[string]*entity.Review)}
}

func (r *fakeReviewRepo) Rate(ctx context.Context, requestID string, fn repository.RateFunc) (*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pickups.mu.Lock()
	defer r.pickups.mu.Unlock()
	r.users.mu.Lock()
	defer r.users.mu.Unlock()

	stored, ok := r.pickups.requests[requestID]
	if !ok {
		return nil, errors.NotFound("Pickup request", nil)
	}
	req := *stored

	var collector *entity.User
	if req.CollectorID != "" {
		u, ok := r.users.users[req.CollectorID]
		if !ok {
			return nil, errors.NotFound("Collector", nil)
		}
		cp := *u
		collector = &cp
		if _, exists := r.reviews[entity.ReviewID(req.ID, req.CollectorID)]; exists {
			return nil, errors.Conflict("Pickup request has already been rated")
		}
	}

	review, err := fn(&req, collector)
	if err != nil {
		return nil, err
	}
	review.ID = entity.ReviewID(req.ID, collector.ID)

	r.reviews[review.ID] = review
	r.pickups.requests[req.ID] = &req
	r.users.users[collector.ID] = collector
	return review, nil
}

func (r *fakeReviewRepo) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[id]
	if !ok {
		return nil, errors.NotFound("Review", nil)
	}
	return rv, nil
}

func (r *fakeReviewRepo) ListByCollector(ctx context.Context, collectorID string, limit, offset int) ([]*entity.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Review
	for _, rv := range r.reviews {
		if rv.CollectorID == collectorID {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	if offset < len(out) {
		out = out[offset:]
	} else {
		out = nil
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

type fakeChatRepo struct {
	mu            sync.Mutex
	messages      []*entity.Message
	conversations map[string]*entity.Conversation
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{conversations: make(map[string]*entity.Conversation)}
}

func (r *fakeChatRepo) SendMessage(ctx context.Context, m *entity.Message) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[m.ConversationID]
	if !ok {
		conv = &entity.Conversation{
			ID:           m.ConversationID,
			Participants: []string{m.SenderID, m.RecipientID},
			UnreadCount:  make(map[string]int),
			CreatedAt:    m.CreatedAt,
		}
		r.conversations[m.ConversationID] = conv
	}
	conv.UnreadCount[m.RecipientID]++
	conv.LastMessage = m.Text
	conv.LastSenderID = m.SenderID
	conv.LastMessageAt = m.CreatedAt
	conv.UpdatedAt = m.CreatedAt

	cp := *m
	r.messages = append(r.messages, &cp)

	out := *conv
	out.UnreadCount = make(map[string]int)
	for k, v := range conv.UnreadCount {
		out.UnreadCount[k] = v
	}
	return &out, nil
}

func (r *fakeChatRepo) ListMessages(ctx context.Context, conversationID string, limit int) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *fakeChatRepo) MarkRead(ctx context.Context, conversationID, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.conversations[conversationID]
	if !ok {
		return 0, nil
	}
	n := 0
	for _, m := range r.messages {
		if m.ConversationID == conversationID && m.RecipientID == userID && !m.Read {
			m.Read = true
			n++
		}
	}
	conv.UnreadCount[userID] = 0
	return n, nil
}

func (r *fakeChatRepo) ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Conversation
	for _, conv := range r.conversations {
		for _, p := range conv.Participants {
			if p == userID {
				cp := *conv
				out = append(out, &cp)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessageAt.After(out[j].LastMessageAt) })
	return out, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications map[string]*entity.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[string]*entity.Notification)}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *n
	r.notifications[n.ID] = &cp
	return nil
}

func (r *fakeNotificationRepo) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return nil, errors.NotFound("Notification", nil)
	}
	cp := *n
	return &cp, nil
}

func (r *fakeNotificationRepo) forUser(userID string, unreadOnly bool) []*entity.Notification {
	var out []*entity.Notification
	for _, n := range r.notifications {
		if n.UserID == userID && (!unreadOnly || !n.Read) {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*entity.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.forUser(userID, unreadOnly)
	total := int64(len(out))
	if offset < len(out) {
		out = out[offset:]
	} else {
		out = nil
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.forUser(userID, true))), nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return errors.NotFound("Notification", nil)
	}
	n.Read = true
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.notifications, id)
	return nil
}

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings map[string]*entity.Settings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: make(map[string]*entity.Settings)}
}

func (r *fakeSettingsRepo) Get(ctx context.Context, userID string) (*entity.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settings[userID]
	if !ok {
		return nil, errors.NotFound("Settings", nil)
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSettingsRepo) Save(ctx context.Context, s *entity.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.settings[s.UserID] = &cp
	return nil
}

type fakeFileRepo struct {
	mu    sync.Mutex
	files map[string]*entity.FileMetadata
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: make(map[string]*entity.FileMetadata)}
}

func (r *fakeFileRepo) Create(ctx context.Context, m *entity.FileMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.files[m.ID] = &cp
	return nil
}

func (r *fakeFileRepo) GetByID(ctx context.Context, id string) (*entity.FileMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.files[id]
	if !ok {
		return nil, errors.NotFound("File metadata", nil)
	}
	cp := *m
	return &cp, nil
}

func (r *fakeFileRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.files, id)
	return nil
}

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = data
	return "https://storage.test/" + name, nil
}

func (s *fakeStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, name)
	return nil
}

type fakeProcessor struct{}

func (fakeProcessor) Process(data []byte) (*imageproc.Result, error) {
	return &imageproc.Result{Full: []byte("full"), Thumbnail: []byte("thumb"), Width: 10, Height: 10}, nil
}

type fakeAuth struct {
	mu        sync.Mutex
	accounts  map[string]string // email -> password
	uids      map[string]string // email -> uid
	tokens    map[string]*firebase.TokenInfo
	deleted   []string
	createErr error
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		accounts: make(map[string]string),
		uids:     make(map[string]string),
		tokens:   make(map[string]*firebase.TokenInfo),
	}
}

func (a *fakeAuth) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.createErr != nil {
		return "", a.createErr
	}
	if _, ok := a.accounts[email]; ok {
		return "", errors.EmailAlreadyInUse(nil)
	}
	uid := "uid-" + email
	a.accounts[email] = password
	a.uids[email] = uid
	return uid, nil
}

func (a *fakeAuth) DeleteUser(ctx context.Context, uid string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deleted = append(a.deleted, uid)
	return nil
}

func (a *fakeAuth) VerifyToken(ctx context.Context, token string) (*firebase.TokenInfo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	info, ok := a.tokens[token]
	if !ok {
		return nil, errors.Unauthorized("Invalid or expired token", nil)
	}
	return info, nil
}

func (a *fakeAuth) SignIn(ctx context.Context, email, password string) (*firebase.TokenPair, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if pw, ok := a.accounts[email]; !ok || pw != password {
		return nil, errors.InvalidCredentials(nil)
	}
	return &firebase.TokenPair{UID: a.uids[email], IDToken: "id-" + email, RefreshToken: "refresh-" + email, ExpiresIn: 3600}, nil
}

func (a *fakeAuth) Refresh(ctx context.Context, refreshToken string) (*firebase.TokenPair, error) {
	return &firebase.TokenPair{IDToken: "renewed", RefreshToken: refreshToken, ExpiresIn: 3600}, nil
}

type published struct {
	UserID string
	Type   string
	Data   interface{}
}

type fakeRealtime struct {
	mu     sync.Mutex
	events []published
}

func (f *fakeRealtime) Publish(ctx context.Context, userID, eventType string, data interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, published{UserID: userID, Type: eventType, Data: data})
	return nil
}

func (f *fakeRealtime) sent() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]published(nil), f.events...)
}

type fakeEvents struct {
	mu     sync.Mutex
	events []entity.PickupEvent
}

func (f *fakeEvents) PublishPickupEvent(ctx context.Context, e entity.PickupEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

func (f *fakeEvents) all() []entity.PickupEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.PickupEvent(nil), f.events...)
}

var dhaka = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Dhaka")
	if err != nil {
		return time.FixedZone("BST", 6*60*60)
	}
	return loc
}()

// fixedNow is Wednesday 21 October 2026, 10:00 in Dhaka.
var fixedNow = time.Date(2026, time.October, 21, 10, 0, 0, 0, dhaka)

func household(id string) *entity.User {
	return &entity.User{ID: id, Name: "Household " + id, Email: id + "@example.com", Phone: "01712345678", Role: entity.RoleHousehold}
}

func collector(id string) *entity.User {
	return &entity.User{ID: id, Name: "Collector " + id, Email: id + "@example.com", Phone: "01812345678", Role: entity.RoleCollector}
}

func repositoryFilterAll() repository.PickupListFilter {
	return repository.PickupListFilter{}
}
