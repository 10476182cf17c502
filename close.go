package factorgo

// Close stops accepting queries and releases the cached plans, returning
// their memory to the resource controller. In-flight queries finish
// normally. Close is idempotent.
func (e *Engine) Close() error {
	if e == nil || !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	e.pool.Close()
	if e.plans != nil {
		e.plans.Purge()
	}
	e.logger.Info("engine closed")
	return nil
}
