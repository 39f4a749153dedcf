package run

import "context"

type Repo interface {
	Insert(ctx context.Context, r *Run) error
}
