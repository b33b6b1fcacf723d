package supervisor

import "context"

// FuncService adapts a blocking function to suture.Service.
type FuncService struct {
	name string
	run  func(ctx context.Context) error
}

func NewFuncService(name string, run func(ctx context.Context) error) *FuncService {
	return &FuncService{name: name, run: run}
}

func (f *FuncService) Serve(ctx context.Context) error {
	return f.run(ctx)
}

func (f *FuncService) String() string {
	return f.name
}
