package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/initiativeflow/pkg/domain/model"
	"github.com/secmon-lab/initiativeflow/pkg/usecase"
	"github.com/secmon-lab/initiativeflow/pkg/utils/errutil"
	"github.com/secmon-lab/initiativeflow/pkg/utils/logging"
)

const liveKeepAlive = 25 * time.Second

type liveError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// liveEvent is the JSON payload of one Server-Sent Event
type liveEvent struct {
	Loading bool       `json:"loading"`
	Data    any        `json:"data,omitempty"`
	Error   *liveError `json:"error,omitempty"`
}

// serveLive streams the values of a live query as Server-Sent Events until
// the client disconnects or the query fails
func serveLive[T any](w http.ResponseWriter, r *http.Request, subscribe func(ctx context.Context, fn func(usecase.Live[T])) *usecase.Subscription, convert func(T) any) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		errutil.HandleHTTP(r.Context(), w, goerr.New("streaming is not supported"), http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	values := make(chan usecase.Live[T], 16)
	sub := subscribe(ctx, func(v usecase.Live[T]) {
		select {
		case values <- v:
		case <-ctx.Done():
		}
	})
	defer sub.Stop()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// write sends one event and reports whether the stream should go on
	write := func(v usecase.Live[T]) bool {
		event := liveEvent{Loading: v.Loading}
		switch {
		case v.Err != nil:
			event.Error = &liveError{Status: statusOf(v.Err), Message: v.Err.Error()}
		case !v.Loading:
			event.Data = convert(v.Data)
		}

		data, err := json.Marshal(event)
		if err != nil {
			errutil.Handle(ctx, goerr.Wrap(err, "failed to encode live event"), "failed to encode live event")
			return false
		}
		if _, err := fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data); err != nil {
			logging.From(ctx).Debug("live client gone", "error", err.Error())
			return false
		}
		flusher.Flush()
		return v.Err == nil
	}

	ticker := time.NewTicker(liveKeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-sub.Done():
			for {
				select {
				case v := <-values:
					if !write(v) {
						return
					}
				default:
					return
				}
			}

		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case v := <-values:
			if !write(v) {
				return
			}
		}
	}
}

func (s *Server) liveInitiatives(w http.ResponseWriter, r *http.Request) {
	uid := currentUser(r.Context())
	serveLive(w, r,
		func(ctx context.Context, fn func(usecase.Live[[]*model.Initiative])) *usecase.Subscription {
			return s.uc.Initiative.WatchInitiatives(ctx, uid, fn)
		},
		func(list []*model.Initiative) any { return convertList(list, toInitiativeResponse) },
	)
}

func (s *Server) liveInitiative(w http.ResponseWriter, r *http.Request) {
	uid := currentUser(r.Context())
	id := initiativeIDParam(r)
	serveLive(w, r,
		func(ctx context.Context, fn func(usecase.Live[*model.Initiative])) *usecase.Subscription {
			return s.uc.Initiative.WatchInitiative(ctx, uid, id, fn)
		},
		func(ini *model.Initiative) any { return toInitiativeResponse(ini) },
	)
}

func (s *Server) liveTasks(w http.ResponseWriter, r *http.Request) {
	uid := currentUser(r.Context())
	id := initiativeIDParam(r)
	serveLive(w, r,
		func(ctx context.Context, fn func(usecase.Live[[]*model.Task])) *usecase.Subscription {
			return s.uc.Task.WatchTasks(ctx, uid, id, fn)
		},
		func(list []*model.Task) any { return convertList(list, toTaskResponse) },
	)
}
