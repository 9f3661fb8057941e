package concurrent

// Job is one unit of work handed to a WorkerPool. ID lets results that come
// back out of order be put back in submission order.
type Job[T any] struct {
	ID      int
	JobItem T
}

func NewJob[T any](id int, item T) Job[T] {
	return Job[T]{ID: id, JobItem: item}
}

type JobFunc[T, G any] func(job T) G
