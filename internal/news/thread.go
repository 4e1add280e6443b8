package news

import (
	"sync"
	"time"

	"ikit-news/internal/model"
)

// Thread is the comment list a session sees on an article page.
type Thread struct {
	ArticleID string
	Comments  []model.Comment

	touched time.Time
}

// Threads holds each session's comment thread. A thread is stored once the
// session comments and lives only while it stays on the article page.
type Threads struct {
	mu      sync.Mutex
	threads map[string]*Thread
	now     func() time.Time
}

func NewThreads() *Threads {
	return &Threads{
		threads: make(map[string]*Thread),
		now:     time.Now,
	}
}

// Open returns a snapshot of the session's thread for articleID. A session
// without a stored thread for that article gets the seeded comments, and
// nothing is retained for it.
func (t *Threads) Open(sid, articleID string) Thread {
	t.mu.Lock()
	defer t.mu.Unlock()
	th, ok := t.threads[sid]
	if !ok || th.ArticleID != articleID {
		return Thread{ArticleID: articleID, Comments: seedComments()}
	}
	th.touched = t.now()
	return th.snapshot()
}

// Append adds exactly one comment to the session's thread, storing the
// thread if needed.
func (t *Threads) Append(sid, articleID, author, body string) model.Comment {
	t.mu.Lock()
	defer t.mu.Unlock()
	th, ok := t.threads[sid]
	if !ok || th.ArticleID != articleID {
		th = &Thread{ArticleID: articleID, Comments: seedComments()}
		t.threads[sid] = th
	}
	now := t.now()
	c := model.NewComment(author, body, now)
	th.Comments = append(th.Comments, c)
	th.touched = now
	return c
}

// Drop forgets the session's thread.
func (t *Threads) Drop(sid string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.threads, sid)
}

// Sweep drops threads not touched since cutoff and returns how many went.
func (t *Threads) Sweep(cutoff time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for sid, th := range t.threads {
		if th.touched.Before(cutoff) {
			delete(t.threads, sid)
			n++
		}
	}
	return n
}

// Len reports how many sessions currently hold a thread.
func (t *Threads) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.threads)
}

func (th *Thread) snapshot() Thread {
	out := Thread{ArticleID: th.ArticleID, Comments: make([]model.Comment, len(th.Comments))}
	copy(out.Comments, th.Comments)
	return out
}
