package pie

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"

	"github.com/mycok/minigraph/graph"
)

// valueUpdate is a computed vertex value waiting to be written back.
type valueUpdate struct {
	id    graph.VertexID
	value int64
}

// writeBack persists the payloads of all fragments through a fixed pool of
// NumOfWorkers workers fed by a single source worker. It returns the number
// of persisted values. Any worker error cancels the remaining writes.
func (svc *Service) writeBack(ctx context.Context, frags []*graph.CSR) (int, error) {
	execCtx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()

	var (
		wg        sync.WaitGroup
		persisted int64
		updateCh  = make(chan valueUpdate)
		errCh     = make(chan error, svc.config.NumOfWorkers)
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(updateCh)

		for _, frag := range frags {
			err := frag.Payloads(func(id graph.VertexID, value int64) error {
				select {
				case <-execCtx.Done():
					return execCtx.Err()
				case updateCh <- valueUpdate{id: id, value: value}:
					return nil
				}
			})
			if err != nil {
				return
			}
		}
	}()

	for i := 0; i < svc.config.NumOfWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for u := range updateCh {
				if err := svc.config.GraphAPI.UpdateValue(u.id, u.value); err != nil {
					mayEmitError(fmt.Errorf("vertex %d: %w", u.id, err), errCh)
					cancelFn()

					return
				}
				atomic.AddInt64(&persisted, 1)
			}
		}()
	}

	wg.Wait()
	close(errCh)

	var err error
	for workerErr := range errCh {
		err = multierror.Append(err, workerErr)
	}
	if err == nil {
		err = ctx.Err()
	}

	return int(persisted), err
}

func mayEmitError(err error, errCh chan<- error) {
	select {
	case errCh <- err:
	default:
	}
}
