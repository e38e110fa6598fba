package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/isdelr/social-be/internal/auth"
	"github.com/isdelr/social-be/internal/database"
	"github.com/isdelr/social-be/internal/models"
	"github.com/isdelr/social-be/internal/services"
)

type emitted struct {
	eventType string
	payload   any
}

type recordingEvents struct {
	mu     sync.Mutex
	events []emitted
}

func (r *recordingEvents) Emit(_ context.Context, eventType string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, emitted{eventType: eventType, payload: payload})
}

func (r *recordingEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		out = append(out, e.eventType)
	}
	return out
}

type fixture struct {
	db       *database.DB
	tokens   *auth.TokenIssuer
	events   *recordingEvents
	users    *services.UserService
	posts    *services.PostService
	comments *services.CommentService
	likes    *services.LikeService
	stats    *services.StatsService
}

func newFixture(c *qt.C) *fixture {
	db, err := database.NewSQLiteMemory(context.Background())
	c.Assert(err, qt.IsNil)
	c.Cleanup(func() { db.Close() })

	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	events := &recordingEvents{}
	return &fixture{
		db:       db,
		tokens:   tokens,
		events:   events,
		users:    services.NewUserService(db, tokens),
		posts:    services.NewPostService(db, events),
		comments: services.NewCommentService(db, events),
		likes:    services.NewLikeService(db, events),
		stats:    services.NewStatsService(db),
	}
}

func (f *fixture) createUser(c *qt.C, username, password string) models.User {
	user, err := f.users.CreateUser(context.Background(), username, password)
	c.Assert(err, qt.IsNil)
	return user
}

func (f *fixture) count(c *qt.C, table string) int {
	var n int
	c.Assert(f.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n), qt.IsNil)
	return n
}

func TestCreateUserStoresHash(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	ctx := context.Background()

	user := f.createUser(c, "alice", "wonder")
	c.Assert(user.ID, qt.Not(qt.Equals), int64(0))
	c.Assert(user.Username, qt.Equals, "alice")
	c.Assert(user.PasswordHash, qt.Equals, "")
	c.Assert(user.CreatedAt.IsZero(), qt.IsFalse)

	stored, err := f.users.GetUserByUsername(ctx, "alice")
	c.Assert(err, qt.IsNil)
	c.Assert(stored.PasswordHash, qt.Not(qt.Equals), "wonder")
	c.Assert(auth.CheckPassword(stored.PasswordHash, "wonder"), qt.IsTrue)

	_, err = f.users.CreateUser(ctx, "alice", "other")
	c.Assert(err, qt.ErrorIs, services.ErrUserExists)

	_, err = f.users.CreateUser(ctx, "  ", "pw")
	c.Assert(err, qt.ErrorIs, services.ErrCredentialsRequired)

	_, err = f.users.GetUserByID(ctx, 12345)
	c.Assert(err, qt.ErrorIs, services.ErrUserNotFound)
}

func TestLoginRecoversUserID(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	for _, creds := range [][2]string{{"alice", "wonder"}, {"bob", "builder"}} {
		user := f.createUser(c, creds[0], creds[1])

		token, err := f.users.Login(context.Background(), creds[0], creds[1])
		c.Assert(err, qt.IsNil)

		claims, err := f.tokens.Verify(token)
		c.Assert(err, qt.IsNil)
		c.Assert(claims.UserID, qt.Equals, user.ID)
		c.Assert(claims.Username, qt.Equals, creds[0])
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	ctx := context.Background()
	f.createUser(c, "alice", "wonder")

	_, wrongPassword := f.users.Login(ctx, "alice", "nope")
	_, unknownUser := f.users.Login(ctx, "mallory", "wonder")

	c.Assert(wrongPassword, qt.ErrorIs, services.ErrInvalidCredentials)
	c.Assert(unknownUser, qt.ErrorIs, services.ErrInvalidCredentials)
	c.Assert(wrongPassword.Error(), qt.Equals, unknownUser.Error())

	_, err := f.users.Login(ctx, "ALICE", "wonder")
	c.Assert(err, qt.ErrorIs, services.ErrInvalidCredentials, qt.Commentf("username match is exact"))

	_, err = f.users.Login(ctx, "", "wonder")
	c.Assert(err, qt.ErrorIs, services.ErrCredentialsRequired)
}

func TestCreatePost(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	alice := f.createUser(c, "alice", "wonder")

	post, err := f.posts.CreatePost(context.Background(), alice.ID, "hello")
	c.Assert(err, qt.IsNil)
	c.Assert(post.ID, qt.Equals, int64(1))
	c.Assert(post.UserID, qt.Equals, alice.ID)
	c.Assert(post.Content, qt.Equals, "hello")
	c.Assert(post.CreatedAt.IsZero(), qt.IsFalse)
	c.Assert(f.events.types(), qt.DeepEquals, []string{models.EventPostCreated})
}

func TestCreatePostRejectsEmptyContent(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	alice := f.createUser(c, "alice", "wonder")

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := f.posts.CreatePost(context.Background(), alice.ID, content)
		c.Assert(err, qt.ErrorIs, services.ErrContentRequired)
	}
	c.Assert(f.count(c, "posts"), qt.Equals, 0)
	c.Assert(f.events.types(), qt.HasLen, 0)
}

func TestCreatePostUnknownAuthor(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	_, err := f.posts.CreatePost(context.Background(), 99, "ghost")
	c.Assert(err, qt.IsNotNil)
	c.Assert(database.IsForeignKeyViolation(err), qt.IsTrue)
}

func TestListPostsNewestFirst(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	ctx := context.Background()
	alice := f.createUser(c, "alice", "wonder")
	bob := f.createUser(c, "bob", "builder")

	var ids []int64
	for i, author := range []models.User{alice, bob, alice, bob} {
		post, err := f.posts.CreatePost(ctx, author.ID, "post "+string(rune('a'+i)))
		c.Assert(err, qt.IsNil)
		ids = append(ids, post.ID)
	}

	posts, err := f.posts.ListPosts(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(posts, qt.HasLen, 4)

	for i := 1; i < len(posts); i++ {
		prev, cur := posts[i-1], posts[i]
		c.Assert(!prev.CreatedAt.Before(cur.CreatedAt), qt.IsTrue)
		c.Assert(prev.ID > cur.ID, qt.IsTrue)
	}
	c.Assert(posts[0].ID, qt.Equals, ids[3])
	c.Assert(posts[0].Username, qt.Equals, "bob")
	c.Assert(posts[3].Username, qt.Equals, "alice")
}

func TestListPostsEmpty(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	posts, err := f.posts.ListPosts(context.Background())
	c.Assert(err, qt.IsNil)
	c.Assert(posts, qt.IsNotNil)
	c.Assert(posts, qt.HasLen, 0)
}

func TestComments(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	ctx := context.Background()
	alice := f.createUser(c, "alice", "wonder")
	bob := f.createUser(c, "bob", "builder")
	post, err := f.posts.CreatePost(ctx, alice.ID, "hello")
	c.Assert(err, qt.IsNil)

	first, err := f.comments.CreateComment(ctx, bob.ID, post.ID, "first!")
	c.Assert(err, qt.IsNil)
	c.Assert(first.PostID, qt.Equals, post.ID)
	c.Assert(first.UserID, qt.Equals, bob.ID)
	c.Assert(first.Content, qt.Equals, "first!")

	_, err = f.comments.CreateComment(ctx, alice.ID, post.ID, "thanks")
	c.Assert(err, qt.IsNil)

	list, err := f.comments.ListComments(ctx, post.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(list, qt.HasLen, 2)
	c.Assert(list[0].Content, qt.Equals, "first!")
	c.Assert(list[0].Username, qt.Equals, "bob")
	c.Assert(list[1].Username, qt.Equals, "alice")
	c.Assert(!list[0].CreatedAt.After(list[1].CreatedAt), qt.IsTrue)

	other, err := f.comments.ListComments(ctx, post.ID+1)
	c.Assert(err, qt.IsNil)
	c.Assert(other, qt.HasLen, 0)

	c.Assert(f.events.types(), qt.DeepEquals, []string{
		models.EventPostCreated, models.EventCommentCreated, models.EventCommentCreated,
	})
}

func TestCreateCommentValidation(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	ctx := context.Background()
	alice := f.createUser(c, "alice", "wonder")

	_, err := f.comments.CreateComment(ctx, alice.ID, 0, "text")
	c.Assert(err, qt.ErrorIs, services.ErrPostIDRequired)

	_, err = f.comments.CreateComment(ctx, alice.ID, 1, "")
	c.Assert(err, qt.ErrorIs, services.ErrContentRequired)

	// No existence check: the foreign key rejects the orphan.
	_, err = f.comments.CreateComment(ctx, alice.ID, 404, "orphan")
	c.Assert(err, qt.IsNotNil)
	c.Assert(database.IsForeignKeyViolation(err), qt.IsTrue)
	c.Assert(f.count(c, "comments"), qt.Equals, 0)
}

func TestCreateLikeIsIdempotent(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	ctx := context.Background()
	alice := f.createUser(c, "alice", "wonder")
	post, err := f.posts.CreatePost(ctx, alice.ID, "hello")
	c.Assert(err, qt.IsNil)

	like, created, err := f.likes.CreateLike(ctx, alice.ID, post.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(created, qt.IsTrue)
	c.Assert(like.ID, qt.Not(qt.Equals), int64(0))
	c.Assert(like.PostID, qt.Equals, post.ID)
	c.Assert(like.UserID, qt.Equals, alice.ID)

	again, created, err := f.likes.CreateLike(ctx, alice.ID, post.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(created, qt.IsFalse)
	c.Assert(again, qt.DeepEquals, models.Like{})

	c.Assert(f.count(c, "likes"), qt.Equals, 1)
	c.Assert(f.events.types(), qt.DeepEquals, []string{models.EventPostCreated, models.EventLikeCreated})
}

func TestCreateLikeConcurrentDuplicates(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	ctx := context.Background()
	alice := f.createUser(c, "alice", "wonder")
	post, err := f.posts.CreatePost(ctx, alice.ID, "hello")
	c.Assert(err, qt.IsNil)

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, created, err := f.likes.CreateLike(ctx, alice.ID, post.ID)
			if err == nil {
				results <- created
			}
		}()
	}
	wg.Wait()
	close(results)

	createdCount, total := 0, 0
	for created := range results {
		total++
		if created {
			createdCount++
		}
	}
	c.Assert(total, qt.Equals, attempts)
	c.Assert(createdCount, qt.Equals, 1)
	c.Assert(f.count(c, "likes"), qt.Equals, 1)
}

func TestListLikes(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	ctx := context.Background()
	alice := f.createUser(c, "alice", "wonder")
	bob := f.createUser(c, "bob", "builder")
	post, err := f.posts.CreatePost(ctx, alice.ID, "hello")
	c.Assert(err, qt.IsNil)

	for _, u := range []models.User{bob, alice, bob} {
		_, _, err := f.likes.CreateLike(ctx, u.ID, post.ID)
		c.Assert(err, qt.IsNil)
	}

	likes, err := f.likes.ListLikes(ctx, post.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(likes, qt.DeepEquals, []models.LikeView{{Username: "bob"}, {Username: "alice"}})

	_, _, err = f.likes.CreateLike(ctx, alice.ID, 0)
	c.Assert(err, qt.ErrorIs, services.ErrPostIDRequired)

	_, _, err = f.likes.CreateLike(ctx, alice.ID, 404)
	c.Assert(database.IsForeignKeyViolation(err), qt.IsTrue)
}

func TestStats(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	ctx := context.Background()
	alice := f.createUser(c, "alice", "wonder")
	post, err := f.posts.CreatePost(ctx, alice.ID, "hello")
	c.Assert(err, qt.IsNil)
	_, err = f.comments.CreateComment(ctx, alice.ID, post.ID, "self reply")
	c.Assert(err, qt.IsNil)

	stats, err := f.stats.Counts(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(stats.Users, qt.Equals, int64(1))
	c.Assert(stats.Posts, qt.Equals, int64(1))
	c.Assert(stats.Comments, qt.Equals, int64(1))
	c.Assert(stats.Likes, qt.Equals, int64(0))

	now, err := f.stats.DatabaseTime(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(now, qt.Not(qt.IsNil))
}
