package zone

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mkrassel/territory-app/internal/pool"
	"github.com/mkrassel/territory-app/internal/rebuild"
	"github.com/mkrassel/territory-app/internal/record"
)

type worker struct {
	assembler *rebuild.Assembler
	p         *pool.Pool
	s         *Store
	dataCh    chan Zone
	absentCh  chan string
	failCh    chan Failure
}

func newWorker(a *rebuild.Assembler, p *pool.Pool, s *Store, zoneCount int) *worker {
	return &worker{
		assembler: a,
		p:         p,
		s:         s,
		dataCh:    make(chan Zone, zoneCount),
		absentCh:  make(chan string, zoneCount),
		failCh:    make(chan Failure, zoneCount),
	}
}

func (w *worker) close() {
	close(w.dataCh)
	close(w.absentCh)
	close(w.failCh)
}

func (w *worker) fail(key string, err error) {
	w.failCh <- Failure{Key: key, err: err}
}

func (w *worker) absent(key string) {
	w.absentCh <- key
}

func (w *worker) finish(z Zone) {
	w.dataCh <- z
}

func (w *worker) RebuildEach(ctx context.Context, datasetID uuid.UUID, groups []record.ZoneGroup) ([]Write, []string, []Failure) {
	// Assemble each zones geometry concurrently.
	for i := range groups {
		w.Assemble(ctx, datasetID, groups[i])
	}

	// Define slices that will hold
	// the run results.
	writes := []Write{}
	absent := []string{}
	fails := []Failure{}

	// Write each assembled geometry to
	// the database one at a time. Zones
	// that came out absent have any row
	// from an earlier run removed.
	for range groups {
		select {
		case zone := <-w.dataCh:
			if err := w.s.UpsertTx(ctx, zone); err != nil {
				fails = append(fails, Failure{Key: zone.Key, err: err})
			} else {
				writes = append(writes, Write{Key: zone.Key, Parts: zone.Parts})
			}
		case key := <-w.absentCh:
			if err := w.s.Delete(ctx, datasetID, key); err != nil {
				fails = append(fails, Failure{Key: key, err: err})
			} else {
				absent = append(absent, key)
			}
		case fail := <-w.failCh:
			fails = append(fails, fail)
		}
	}

	return writes, absent, fails
}

func (w *worker) Assemble(ctx context.Context, datasetID uuid.UUID, g record.ZoneGroup) {
	w.p.Add(func() {
		// Check if context has already been
		// cancelled or timed out before executing
		// long running task.
		if ctx.Err() != nil {
			w.fail(g.Key, ctx.Err())
			return
		}

		built, err := w.assembler.AssembleZone(g.Key, g.Records)
		if err != nil {
			if rebuild.IsNoGeometry(err) {
				w.absent(g.Key)
				return
			}
			w.fail(g.Key, err)
			return
		}

		w.finish(Zone{
			DatasetID: datasetID,
			Key:       g.Key,
			Parts:     built.Parts(),
			Geometry:  built,
			RebuiltAt: time.Now().UTC(),
		})
	})
}
