package newsletter

import (
	"context"
	"fmt"

	"github.com/nitaidalal/blog-core/internal/models"
	"github.com/nitaidalal/blog-core/internal/pkg/mail"
	"github.com/nitaidalal/blog-core/internal/pkg/markdown"
	"github.com/nitaidalal/blog-core/internal/pkg/taskqueue"
	"go.uber.org/zap"
)

const excerptMaxLen = 280

// Notifier blasts new-post emails to every active subscriber when a blog
// becomes published. Each run is recorded in the Redis task queue, deduped
// per blog so republishing during an in-flight blast doesn't double-send.
type Notifier struct {
	svc   *Service
	tasks *taskqueue.Service
	log   *zap.Logger
}

func NewNotifier(svc *Service, tasks *taskqueue.Service, log *zap.Logger) *Notifier {
	return &Notifier{svc: svc, tasks: tasks, log: log}
}

// BlastNewBlog dispatches the blast in a detached goroutine and returns
// immediately; publish operations never wait on email.
func (n *Notifier) BlastNewBlog(blog *models.BlogModel) {
	snapshot := *blog
	go func() {
		defer func() {
			if r := recover(); r != nil {
				n.log.Error("newsletter blast panicked",
					zap.String("blogId", snapshot.ID),
					zap.Any("panic", r),
				)
			}
		}()
		n.run(&snapshot)
	}()
}

func (n *Notifier) run(blog *models.BlogModel) {
	ctx := context.Background()

	var taskID string
	if n.tasks != nil {
		task, err := n.tasks.Enqueue(ctx, taskqueue.TypeNewsletterBlast, taskqueue.BlastPayload{
			BlogID: blog.ID,
			Title:  blog.Title,
		}, blog.ID)
		if err != nil {
			n.log.Warn("blast task record failed", zap.Error(err))
		} else {
			if task.Status != taskqueue.TaskPending {
				// A blast for this blog is already running.
				return
			}
			taskID = task.ID
			_ = n.tasks.UpdateStatus(ctx, taskID, taskqueue.TaskRunning, nil, "")
		}
	}

	subs, err := n.svc.ListSubscribed()
	if err != nil {
		n.log.Error("blast subscriber lookup failed", zap.Error(err))
		n.finish(ctx, taskID, taskqueue.TaskFailed, nil, err.Error())
		return
	}

	result := taskqueue.BlastResult{Total: len(subs)}
	excerpt := markdown.Excerpt(blog.Description, excerptMaxLen)
	postURL := fmt.Sprintf("%s/blog/%s", n.svc.frontendURL, blog.ID)

	for i := range subs {
		sub := &subs[i]
		unsubURL, err := n.svc.UnsubscribeURL(sub)
		if err != nil {
			result.Failed++
			continue
		}
		err = n.svc.sender.SendNewPost(sub.Email, mail.NewPostData{
			Name:           sub.Name,
			SiteName:       n.svc.siteName,
			Title:          blog.Title,
			Excerpt:        excerpt,
			PostURL:        postURL,
			UnsubscribeURL: unsubURL,
		})
		if err != nil {
			result.Failed++
			n.log.Warn("new post email failed",
				zap.String("email", sub.Email),
				zap.Error(err),
			)
			continue
		}
		result.Sent++
	}

	n.log.Info("newsletter blast finished",
		zap.String("blogId", blog.ID),
		zap.Int("total", result.Total),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
	)
	n.finish(ctx, taskID, taskqueue.TaskCompleted, result, "")
}

func (n *Notifier) finish(ctx context.Context, taskID string, status taskqueue.TaskStatus, result interface{}, errMsg string) {
	if n.tasks == nil || taskID == "" {
		return
	}
	if err := n.tasks.UpdateStatus(ctx, taskID, status, result, errMsg); err != nil {
		n.log.Warn("blast task update failed", zap.Error(err))
	}
}
