package handlers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"socialite/internal/database"
	"socialite/internal/models"
	"socialite/internal/utils"
)

// fakeStore is an in-memory database.Store with the same uniqueness and
// cascade behavior as the Postgres schema.
type fakeStore struct {
	mu        sync.Mutex
	accounts  map[uuid.UUID]*models.Account
	profiles  map[uuid.UUID]*models.Profile
	relations map[uuid.UUID]*models.Relation
	posts     map[uuid.UUID]*models.Post
	media     map[uuid.UUID]*models.PostMedia
	comments  map[uuid.UUID]*models.Comment
	likes     map[uuid.UUID]*models.Like
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts:  make(map[uuid.UUID]*models.Account),
		profiles:  make(map[uuid.UUID]*models.Profile),
		relations: make(map[uuid.UUID]*models.Relation),
		posts:     make(map[uuid.UUID]*models.Post),
		media:     make(map[uuid.UUID]*models.PostMedia),
		comments:  make(map[uuid.UUID]*models.Comment),
		likes:     make(map[uuid.UUID]*models.Like),
	}
}

func (f *fakeStore) Close(ctx context.Context) error { return nil }
func (f *fakeStore) Ping(ctx context.Context) error  { return nil }

func (f *fakeStore) SaveAccount(ctx context.Context, account *models.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.accounts {
		if existing.Email == account.Email || existing.Username == account.Username {
			return utils.NewAppError(utils.ErrAccountExists, "an account with this username or email already exists", nil)
		}
	}
	stored := *account
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	f.accounts[account.ID] = &stored
	return nil
}

func (f *fakeStore) GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "account not found", nil)
	}
	copied := *account
	return &copied, nil
}

func (f *fakeStore) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.accounts {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, utils.NewAppError(utils.ErrNotFound, "account not found", nil)
}

func (f *fakeStore) UpdateAccount(ctx context.Context, account *models.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[account.ID]; !ok {
		return utils.NewAppError(utils.ErrNotFound, "account not found", nil)
	}
	stored := *account
	f.accounts[account.ID] = &stored
	return nil
}

func (f *fakeStore) SaveProfile(ctx context.Context, profile *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.profiles {
		if existing.AccountID == profile.AccountID {
			return utils.NewAppError(utils.ErrProfileExists, "you can only create one profile", nil)
		}
		if existing.Nickname == profile.Nickname {
			return utils.NewAppError(utils.ErrDuplicate, "nickname already taken", nil)
		}
	}
	stored := *profile
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	f.profiles[profile.ID] = &stored
	return nil
}

func (f *fakeStore) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getProfileLocked(id)
}

func (f *fakeStore) getProfileLocked(id uuid.UUID) (*models.Profile, error) {
	profile, ok := f.profiles[id]
	if !ok {
		return nil, utils.NewProfileNotFoundError(id.String())
	}
	copied := *profile
	return &copied, nil
}

func (f *fakeStore) GetProfileByAccount(ctx context.Context, accountID uuid.UUID) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, profile := range f.profiles {
		if profile.AccountID == accountID {
			copied := *profile
			return &copied, nil
		}
	}
	return nil, utils.NewAppError(utils.ErrProfileNotFound, "no profile for this account", nil)
}

func (f *fakeStore) SearchProfiles(ctx context.Context, search string) ([]*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	needle := strings.ToLower(search)
	var result []*models.Profile
	for _, profile := range f.profiles {
		if needle != "" {
			haystack := strings.ToLower(profile.Nickname + " " + profile.FirstName + " " + profile.LastName)
			if profile.BirthDate != nil {
				haystack += " " + profile.BirthDate.Format("2006-01-02")
			}
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		copied := *profile
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Nickname < result[j].Nickname })
	return result, nil
}

func (f *fakeStore) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.profiles[profile.ID]; !ok {
		return utils.NewProfileNotFoundError(profile.ID.String())
	}
	stored := *profile
	f.profiles[profile.ID] = &stored
	return nil
}

func (f *fakeStore) UpdateProfilePicture(ctx context.Context, profileID uuid.UUID, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[profileID]
	if !ok {
		return utils.NewProfileNotFoundError(profileID.String())
	}
	profile.Picture = &path
	return nil
}

func (f *fakeStore) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.profiles[id]; !ok {
		return utils.NewProfileNotFoundError(id.String())
	}
	delete(f.profiles, id)
	for relID, rel := range f.relations {
		if rel.FollowerID == id || rel.FollowingID == id {
			delete(f.relations, relID)
		}
	}
	for postID, post := range f.posts {
		if post.OwnerID == id {
			f.deletePostLocked(postID)
		}
	}
	for commentID, comment := range f.comments {
		if comment.OwnerID == id {
			delete(f.comments, commentID)
		}
	}
	for likeID, like := range f.likes {
		if like.OwnerID == id {
			delete(f.likes, likeID)
		}
	}
	return nil
}

func (f *fakeStore) SaveRelation(ctx context.Context, relation *models.Relation) error {
	if err := relation.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.relations {
		if existing.FollowerID == relation.FollowerID && existing.FollowingID == relation.FollowingID {
			return utils.NewAppError(utils.ErrAlreadyFollowing, "already following this profile", nil)
		}
	}
	stored := *relation
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	f.relations[relation.ID] = &stored
	return nil
}

func (f *fakeStore) GetRelation(ctx context.Context, id uuid.UUID) (*models.Relation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	relation, ok := f.relations[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "relation not found", nil)
	}
	copied := *relation
	f.fillRelationNamesLocked(&copied)
	return &copied, nil
}

func (f *fakeStore) fillRelationNamesLocked(relation *models.Relation) {
	if p, ok := f.profiles[relation.FollowerID]; ok {
		relation.FollowerName = p.Nickname
	}
	if p, ok := f.profiles[relation.FollowingID]; ok {
		relation.FollowingName = p.Nickname
	}
}

func (f *fakeStore) GetFollowing(ctx context.Context, followerID uuid.UUID) ([]*models.Relation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.Relation
	for _, relation := range f.relations {
		if relation.FollowerID == followerID {
			copied := *relation
			f.fillRelationNamesLocked(&copied)
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeStore) GetFollowers(ctx context.Context, followingID uuid.UUID) ([]*models.Relation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.Relation
	for _, relation := range f.relations {
		if relation.FollowingID == followingID {
			copied := *relation
			f.fillRelationNamesLocked(&copied)
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeStore) GetFollowCandidates(ctx context.Context, followerID uuid.UUID) ([]*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	followed := map[uuid.UUID]bool{}
	for _, relation := range f.relations {
		if relation.FollowerID == followerID {
			followed[relation.FollowingID] = true
		}
	}
	var result []*models.Profile
	for id, profile := range f.profiles {
		if id == followerID || followed[id] {
			continue
		}
		copied := *profile
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeStore) DeleteRelation(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.relations[id]; !ok {
		return utils.NewAppError(utils.ErrNotFound, "relation not found", nil)
	}
	delete(f.relations, id)
	return nil
}

func (f *fakeStore) SavePost(ctx context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *post
	f.posts[post.ID] = &stored
	return nil
}

func (f *fakeStore) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "post not found", nil)
	}
	copied := *post
	f.fillPostCountsLocked(&copied)
	return &copied, nil
}

func (f *fakeStore) fillPostCountsLocked(post *models.Post) {
	if owner, ok := f.profiles[post.OwnerID]; ok {
		post.OwnerNickname = owner.Nickname
	}
	post.LikeCount = 0
	post.DislikeCount = 0
	post.CommentCount = 0
	for _, like := range f.likes {
		if like.PostID != post.ID {
			continue
		}
		if like.IsLiked {
			post.LikeCount++
		}
		if like.IsUnliked {
			post.DislikeCount++
		}
	}
	for _, comment := range f.comments {
		if comment.PostID == post.ID {
			post.CommentCount++
		}
	}
}

func (f *fakeStore) ListPosts(ctx context.Context, filter database.PostFilter) ([]*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.Post
	for _, post := range f.posts {
		if post.IsDraft {
			continue
		}
		if filter.OwnerID != nil && post.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.LikedByMe != nil {
			var reaction *models.Like
			for _, like := range f.likes {
				if like.PostID == post.ID && like.OwnerID == filter.CallerID {
					reaction = like
					break
				}
			}
			// true means explicitly liked, false means explicitly disliked;
			// no reaction row matches neither.
			if reaction == nil {
				continue
			}
			if *filter.LikedByMe && !reaction.IsLiked {
				continue
			}
			if !*filter.LikedByMe && !reaction.IsUnliked {
				continue
			}
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			haystack := strings.ToLower(post.Title + " " + post.Content + " " + post.Hashtags)
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		copied := *post
		f.fillPostCountsLocked(&copied)
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return nil, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (f *fakeStore) UpdatePost(ctx context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[post.ID]; !ok {
		return utils.NewAppError(utils.ErrNotFound, "post not found", nil)
	}
	stored := *post
	f.posts[post.ID] = &stored
	return nil
}

func (f *fakeStore) DeletePost(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return utils.NewAppError(utils.ErrNotFound, "post not found", nil)
	}
	f.deletePostLocked(id)
	return nil
}

func (f *fakeStore) deletePostLocked(id uuid.UUID) {
	delete(f.posts, id)
	for mediaID, m := range f.media {
		if m.PostID == id {
			delete(f.media, mediaID)
		}
	}
	for commentID, comment := range f.comments {
		if comment.PostID == id {
			delete(f.comments, commentID)
		}
	}
	for likeID, like := range f.likes {
		if like.PostID == id {
			delete(f.likes, likeID)
		}
	}
}

func (f *fakeStore) PublishPost(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok || !post.IsDraft {
		return false, nil
	}
	post.IsDraft = false
	post.CreatedAt = at
	post.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeStore) SavePostMedia(ctx context.Context, media *models.PostMedia) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *media
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	f.media[media.ID] = &stored
	return nil
}

func (f *fakeStore) GetPostMedia(ctx context.Context, postID uuid.UUID) ([]*models.PostMedia, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.PostMedia
	for _, m := range f.media {
		if m.PostID == postID {
			copied := *m
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeStore) SaveComment(ctx context.Context, comment *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *comment
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	f.comments[comment.ID] = &stored
	return nil
}

func (f *fakeStore) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "comment not found", nil)
	}
	copied := *comment
	if owner, ok := f.profiles[comment.OwnerID]; ok {
		copied.OwnerNickname = owner.Nickname
	}
	return &copied, nil
}

func (f *fakeStore) ListComments(ctx context.Context) ([]*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.Comment
	for _, comment := range f.comments {
		copied := *comment
		if owner, ok := f.profiles[comment.OwnerID]; ok {
			copied.OwnerNickname = owner.Nickname
		}
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (f *fakeStore) GetPostComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	all, _ := f.ListComments(ctx)
	var result []*models.Comment
	for _, comment := range all {
		if comment.PostID == postID {
			result = append(result, comment)
		}
	}
	return result, nil
}

func (f *fakeStore) DeleteComment(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[id]; !ok {
		return utils.NewAppError(utils.ErrNotFound, "comment not found", nil)
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeStore) GetLike(ctx context.Context, postID, ownerID uuid.UUID) (*models.Like, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, like := range f.likes {
		if like.PostID == postID && like.OwnerID == ownerID {
			copied := *like
			return &copied, nil
		}
	}
	return nil, utils.NewAppError(utils.ErrNotFound, "like not found", nil)
}

func (f *fakeStore) UpsertLike(ctx context.Context, like *models.Like) error {
	if err := like.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.likes {
		if existing.PostID == like.PostID && existing.OwnerID == like.OwnerID {
			existing.IsLiked = like.IsLiked
			existing.IsUnliked = like.IsUnliked
			like.ID = existing.ID
			return nil
		}
	}
	stored := *like
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	f.likes[like.ID] = &stored
	return nil
}

func (f *fakeStore) GetPostLikes(ctx context.Context, postID uuid.UUID) ([]*models.Like, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []*models.Like{}
	for _, like := range f.likes {
		if like.PostID == postID {
			copied := *like
			result = append(result, &copied)
		}
	}
	// Liked rows come first, disliked rows last.
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].IsLiked != result[j].IsLiked {
			return result[i].IsLiked
		}
		return !result[i].IsUnliked && result[j].IsUnliked
	})
	return result, nil
}

func (f *fakeStore) DeleteLike(ctx context.Context, postID, ownerID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, like := range f.likes {
		if like.PostID == postID && like.OwnerID == ownerID {
			delete(f.likes, id)
			return nil
		}
	}
	return nil
}

var _ database.Store = (*fakeStore)(nil)
