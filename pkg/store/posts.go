package store

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/chhengkhim/confessboard/pkg/api"
)

// PostsSlice is the confession feed
type PostsSlice struct {
	*Slice[api.Post]
	svc *api.PostService
}

// CreateWithImage creates a confession, optionally with an image, and
// prepends it
func (s *PostsSlice) CreateWithImage(ctx context.Context, req api.CreatePostRequest, image *api.Upload) (*api.Post, error) {
	return Dispatch(ctx, s.Slice, OpCreate, func(ctx context.Context) (*api.Post, error) {
		return s.svc.CreatePost(ctx, req, image)
	}, func(st *State[api.Post], post *api.Post) {
		st.Prepend(*post)
	})
}

// ApplyLike copies a like result onto the cached post. Without a count
// from the server the cached count moves by one when the like flips.
func (s *PostsSlice) ApplyLike(state *api.LikeState) {
	s.Patch(state.PostID, func(p *api.Post) {
		switch {
		case state.Counted:
			p.LikesCount = state.LikesCount
		case state.Liked && !p.IsLiked:
			p.LikesCount++
		case !state.Liked && p.IsLiked && p.LikesCount > 0:
			p.LikesCount--
		}
		p.IsLiked = state.Liked
	})
}

// CommentsSlice holds the comments of one post at a time
type CommentsSlice struct {
	*Slice[api.Comment]
	svc    *api.CommentService
	postID atomic.Int64
}

func newCommentsSlice(svc *api.CommentService, opts SliceOptions[api.Comment]) *CommentsSlice {
	s := &CommentsSlice{svc: svc}
	opts.Fetch = func(ctx context.Context, q api.ListQuery) (*api.Page[api.Comment], error) {
		return svc.ListComments(ctx, s.postID.Load(), q)
	}
	s.Slice = NewSlice[api.Comment]("comments", svc, opts)
	return s
}

// PostID returns the post whose comments are loaded
func (s *CommentsSlice) PostID() int64 {
	return s.postID.Load()
}

// Load switches to postID and fetches its first page
func (s *CommentsSlice) Load(ctx context.Context, postID int64, q api.ListQuery) error {
	if s.postID.Swap(postID) != postID {
		s.Reset()
	}
	return s.Fetch(ctx, q)
}

// Add comments on the loaded post and prepends the comment
func (s *CommentsSlice) Add(ctx context.Context, postID int64, req api.CommentRequest) (*api.Comment, error) {
	return Dispatch(ctx, s.Slice, OpCreate, func(ctx context.Context) (*api.Comment, error) {
		return s.svc.CreateComment(ctx, postID, req)
	}, func(st *State[api.Comment], c *api.Comment) {
		if postID == s.postID.Load() {
			st.Prepend(*c)
		}
	})
}

// LikesState maps post ids to their last known like state
type LikesState struct {
	Posts   map[int64]api.LikeState `json:"posts"`
	Loading map[int64]bool          `json:"loading"`
	Error   *ErrorState             `json:"error,omitempty"`
}

// LikesSlice tracks like state per post
type LikesSlice struct {
	svc *api.LikeService

	mu    sync.Mutex
	state LikesState

	// OnChange is told about every settled like result
	OnChange func(*api.LikeState)
}

func newLikesSlice(svc *api.LikeService) *LikesSlice {
	return &LikesSlice{svc: svc, state: LikesState{
		Posts:   map[int64]api.LikeState{},
		Loading: map[int64]bool{},
	}}
}

// Snapshot returns a copy of the current state
func (s *LikesSlice) Snapshot() LikesState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := LikesState{
		Posts:   make(map[int64]api.LikeState, len(s.state.Posts)),
		Loading: make(map[int64]bool, len(s.state.Loading)),
		Error:   s.state.Error,
	}
	for k, v := range s.state.Posts {
		out.Posts[k] = v
	}
	for k, v := range s.state.Loading {
		out.Loading[k] = v
	}
	return out
}

func (s *LikesSlice) run(ctx context.Context, postID int64, call func(context.Context, int64) (*api.LikeState, error)) (*api.LikeState, error) {
	s.mu.Lock()
	s.state.Loading[postID] = true
	s.state.Error = nil
	s.mu.Unlock()

	result, err := call(ctx, postID)

	s.mu.Lock()
	delete(s.state.Loading, postID)
	if err != nil {
		s.state.Error = errorState(err)
	} else {
		s.state.Posts[postID] = *result
	}
	onChange := s.OnChange
	s.mu.Unlock()

	if err == nil && onChange != nil {
		onChange(result)
	}
	return result, err
}

// Like likes a post
func (s *LikesSlice) Like(ctx context.Context, postID int64) (*api.LikeState, error) {
	return s.run(ctx, postID, s.svc.Like)
}

// Unlike removes a like
func (s *LikesSlice) Unlike(ctx context.Context, postID int64) (*api.LikeState, error) {
	return s.run(ctx, postID, s.svc.Unlike)
}

// Toggle flips the like, falling back to unlike on "already liked"
func (s *LikesSlice) Toggle(ctx context.Context, postID int64) (*api.LikeState, error) {
	return s.run(ctx, postID, s.svc.Toggle)
}

// ToggleByStatus flips the like after asking the server for its state
func (s *LikesSlice) ToggleByStatus(ctx context.Context, postID int64) (*api.LikeState, error) {
	return s.run(ctx, postID, s.svc.ToggleByStatus)
}

// Status loads the like state of a post
func (s *LikesSlice) Status(ctx context.Context, postID int64) (*api.LikeState, error) {
	return s.run(ctx, postID, s.svc.Status)
}

// Clear forgets every like state
func (s *LikesSlice) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = LikesState{Posts: map[int64]api.LikeState{}, Loading: map[int64]bool{}}
}
