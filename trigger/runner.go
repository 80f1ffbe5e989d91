package trigger

import (
	"time"

	"github.com/golang/glog"
	"github.com/teris-io/shortid"

	"github.com/mced-project/mced/cmn"
)

// TriggerRunner builds the environment block and dispatches a
// user-defined command synchronously or asynchronously (spec.md §4.5).
// Asynchronous dispatches are bounded by a dynamic semaphore so a burst
// of page triggers can't fork-bomb the host, and are drained with a
// bounded wait at shutdown.
type TriggerRunner struct {
	spawner Spawner
	sem     *cmn.DynSemaphore
	drain   *cmn.TimeoutGroup
	sid     *shortid.Shortid
}

// NewTriggerRunner bounds concurrent asynchronous dispatches to maxAsync.
func NewTriggerRunner(spawner Spawner, maxAsync int64) *TriggerRunner {
	sid, err := shortid.New(1, shortid.DefaultABC, 1)
	cmn.AssertNoErr(err)
	return &TriggerRunner{
		spawner: spawner,
		sem:     cmn.NewDynSemaphore(int(maxAsync)),
		drain:   cmn.NewTimeoutGroup(),
		sid:     sid,
	}
}

func (r *TriggerRunner) correlationID() string {
	id, err := r.sid.Generate()
	if err != nil {
		return "??????"
	}
	return id
}

// Run dispatches path with argv and env.Build(). An empty path is treated
// as "trigger not configured" and is a no-op (pre/post-soft triggers are
// optional). Synchronous dispatch blocks the caller until the child
// exits and returns its error; the core never waits on an asynchronous
// trigger's exit status for further control decisions (spec.md §4.5).
func (r *TriggerRunner) Run(path string, argv []string, env Env, sync bool) error {
	if path == "" {
		return nil
	}
	cid := r.correlationID()
	envBlock := env.Build()

	if sync {
		glog.Infof("trigger[%s]: running %s synchronously, argv=%v", cid, path, argv)
		proc, err := r.spawner.Start(path, argv, envBlock)
		if err != nil {
			glog.Errorf("trigger[%s]: %s failed to start: %v", cid, path, err)
			return err
		}
		err = proc.Wait()
		if err != nil {
			glog.Errorf("trigger[%s]: %s exited with error: %v", cid, path, err)
		} else {
			glog.Infof("trigger[%s]: %s exited ok", cid, path)
		}
		return err
	}

	r.sem.Acquire()
	proc, err := r.spawner.Start(path, argv, envBlock)
	if err != nil {
		r.sem.Release()
		glog.Errorf("trigger[%s]: %s failed to start: %v", cid, path, err)
		return err
	}
	glog.Infof("trigger[%s]: dispatched %s asynchronously, argv=%v", cid, path, argv)
	r.drain.Add(1)
	go func() {
		defer r.sem.Release()
		defer r.drain.Done()
		if err := proc.Wait(); err != nil {
			glog.Errorf("trigger[%s]: %s exited with error: %v", cid, path, err)
		}
	}()
	return nil
}

// Drain waits up to timeout for every outstanding asynchronous trigger to
// exit. Returns true if the wait timed out with children still running.
func (r *TriggerRunner) Drain(timeout time.Duration) bool {
	return r.drain.WaitTimeout(timeout)
}
