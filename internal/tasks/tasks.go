package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"log"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/nfnt/resize"
	"github.com/redis/go-redis/v9"

	"github.com/jhunter5/Backend/internal/config"
	"github.com/jhunter5/Backend/internal/identity"
	"github.com/jhunter5/Backend/internal/services"
	"github.com/jhunter5/Backend/internal/storage"
)

// Task types handled by the background worker.
const (
	TypeMediaProcess  = "media:process"
	TypeRoleAssign    = "identity:role:assign"
	TypeContractSweep = "contract:sweep"
)

const (
	queueCritical = "critical"
	queueDefault  = "default"
	queueImages   = "images"
)

func redisOpt(rdb *redis.Client) asynq.RedisClientOpt {
	opts := rdb.Options()
	return asynq.RedisClientOpt{Addr: opts.Addr, Password: opts.Password, DB: opts.DB}
}

// --- Task Client (Enqueuing tasks) ---

func NewClient(rdb *redis.Client) *asynq.Client {
	return asynq.NewClient(redisOpt(rdb))
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Queue implements services.IJobQueue on top of asynq.
type Queue struct {
	client enqueuer
}

func NewQueue(client *asynq.Client) *Queue {
	return &Queue{client: client}
}

var _ services.IJobQueue = (*Queue)(nil)

// RoleAssignPayload asks the worker to grant an identity provider role to a user.
type RoleAssignPayload struct {
	AuthID string `json:"auth_id"`
	Role   string `json:"role"`
}

// MediaProcessPayload points the worker at an uploaded image.
type MediaProcessPayload struct {
	ObjectKey   string `json:"object_key"`
	ContentType string `json:"content_type"`
}

func (q *Queue) EnqueueRoleAssignment(ctx context.Context, authID, role string) error {
	payload, err := json.Marshal(RoleAssignPayload{AuthID: authID, Role: role})
	if err != nil {
		return err
	}
	_, err = q.client.EnqueueContext(ctx, asynq.NewTask(TypeRoleAssign, payload),
		asynq.Queue(queueCritical), asynq.MaxRetry(10), asynq.Timeout(time.Minute))
	if err != nil {
		return fmt.Errorf("enqueue %s for %s: %w", TypeRoleAssign, authID, err)
	}
	return nil
}

func (q *Queue) EnqueueMediaProcessing(ctx context.Context, objectKey, contentType string) error {
	payload, err := json.Marshal(MediaProcessPayload{ObjectKey: objectKey, ContentType: contentType})
	if err != nil {
		return err
	}
	_, err = q.client.EnqueueContext(ctx, asynq.NewTask(TypeMediaProcess, payload),
		asynq.Queue(queueImages), asynq.MaxRetry(5), asynq.Timeout(2*time.Minute))
	if err != nil {
		return fmt.Errorf("enqueue %s for %s: %w", TypeMediaProcess, objectKey, err)
	}
	return nil
}

// --- Task Server (Processing tasks) ---

// TaskProcessor holds the dependencies of the task handlers.
type TaskProcessor struct {
	cfg       *config.Config
	storage   storage.IS3Storage
	identity  identity.IIdentityClient
	contracts services.IContractService
	now       func() time.Time
}

func NewTaskProcessor(cfg *config.Config, storage storage.IS3Storage, identityClient identity.IIdentityClient, contracts services.IContractService) *TaskProcessor {
	return &TaskProcessor{
		cfg:       cfg,
		storage:   storage,
		identity:  identityClient,
		contracts: contracts,
		now:       time.Now,
	}
}

// SetupServer builds the asynq server and its handler mux. The caller runs and stops the server.
func SetupServer(rdb *redis.Client, processor *TaskProcessor) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		redisOpt(rdb),
		asynq.Config{
			Queues: map[string]int{
				queueCritical: 6,
				queueImages:   3,
				queueDefault:  1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq Error] Task Type: %s, Payload: %s, Error: %v", task.Type(), string(task.Payload()), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeMediaProcess, processor.HandleMediaProcessTask)
	mux.HandleFunc(TypeRoleAssign, processor.HandleRoleAssignTask)
	mux.HandleFunc(TypeContractSweep, processor.HandleContractSweepTask)
	return srv, mux
}

// NewScheduler registers the periodic contract sweep on cronSpec.
func NewScheduler(rdb *redis.Client, cronSpec string) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(redisOpt(rdb), &asynq.SchedulerOpts{Location: time.UTC})
	entryID, err := scheduler.Register(cronSpec, asynq.NewTask(TypeContractSweep, nil), asynq.Queue(queueDefault), asynq.MaxRetry(1))
	if err != nil {
		return nil, fmt.Errorf("register %s on %q: %w", TypeContractSweep, cronSpec, err)
	}
	log.Printf("Scheduled %s (%s) as entry %s", TypeContractSweep, cronSpec, entryID)
	return scheduler, nil
}

// --- Task Handlers ---

// HandleMediaProcessTask downsizes an uploaded image in place when it exceeds ImageMaxDimension.
// Non-image objects and images already within bounds are left untouched.
func (p *TaskProcessor) HandleMediaProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload MediaProcessPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal media task payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.ObjectKey == "" {
		return fmt.Errorf("media task without object key: %w", asynq.SkipRetry)
	}
	if !strings.HasPrefix(payload.ContentType, "image/") {
		return nil
	}

	data, contentType, err := p.storage.Download(ctx, payload.ObjectKey)
	if err != nil {
		return err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Printf("Cannot decode image %s (%s): %v", payload.ObjectKey, contentType, err)
		return fmt.Errorf("unsupported image format or corrupt image: %w", asynq.SkipRetry)
	}

	maxDim := uint(p.cfg.ImageMaxDimension)
	bounds := img.Bounds()
	if maxDim == 0 || (uint(bounds.Dx()) <= maxDim && uint(bounds.Dy()) <= maxDim) {
		return nil
	}

	resized := resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)
	var buf bytes.Buffer
	outType := "image/jpeg"
	if format == "png" {
		outType = "image/png"
		err = png.Encode(&buf, resized)
	} else {
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return fmt.Errorf("failed to re-encode resized image: %w", err)
	}

	if err := p.storage.Replace(ctx, payload.ObjectKey, buf.Bytes(), outType); err != nil {
		return err
	}
	log.Printf("Resized image %s from %dx%d to %dx%d", payload.ObjectKey, bounds.Dx(), bounds.Dy(), resized.Bounds().Dx(), resized.Bounds().Dy())
	return nil
}

// HandleRoleAssignTask grants the role recorded at profile creation.
// An unknown role cannot succeed later and is not retried.
func (p *TaskProcessor) HandleRoleAssignTask(ctx context.Context, t *asynq.Task) error {
	var payload RoleAssignPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal role task payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.AuthID == "" || payload.Role == "" {
		return fmt.Errorf("role task without user or role: %w", asynq.SkipRetry)
	}

	err := p.identity.AssignRole(ctx, payload.AuthID, payload.Role)
	if errors.Is(err, identity.ErrRoleNotFound) {
		log.Printf("Role %q does not exist at the identity provider; not assigning it to %s", payload.Role, payload.AuthID)
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	if err != nil {
		return err
	}
	log.Printf("Assigned role %s to %s", payload.Role, payload.AuthID)
	return nil
}

// HandleContractSweepTask stores the expired status on contracts whose end date has passed.
func (p *TaskProcessor) HandleContractSweepTask(ctx context.Context, _ *asynq.Task) error {
	n, err := p.contracts.ExpireEnded(ctx, p.now())
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("Contract sweep marked %d contracts expired", n)
	}
	return nil
}
