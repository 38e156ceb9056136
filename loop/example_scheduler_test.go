package loop_test

import (
	"context"
	"fmt"
	"time"

	"github.com/plus3/snek/loop"
)

type counter struct {
	value int
}

func (c *counter) Advance() error {
	c.value++
	return nil
}

type printer struct {
	c *counter
}

func (p printer) Render() error {
	fmt.Printf("value=%d\n", p.c.value)
	return nil
}

// ExampleScheduler demonstrates driving a simulation with synthetic frame
// timestamps. The first frame only fixes the start time; a step fires once
// more than the interval has elapsed since the last step.
func ExampleScheduler() {
	c := &counter{}
	host := loop.NewManualHost()

	scheduler, err := loop.New(host, 100*time.Millisecond)
	if err != nil {
		panic(err)
	}
	if err := scheduler.Start(context.Background(), loop.Compose(c, printer{c})); err != nil {
		panic(err)
	}

	for _, ts := range []int{0, 40, 90, 150, 260} {
		host.Fire(time.Duration(ts) * time.Millisecond)
	}

	fmt.Println("steps:", scheduler.Stats().Steps)
	// Output:
	// value=0
	// value=1
	// value=2
	// steps: 2
}

// ExampleTickerHost demonstrates running the loop on a ticker until the
// context is cancelled.
func ExampleTickerHost() {
	c := &counter{}
	host := loop.NewTickerHost(time.Millisecond)

	scheduler, err := loop.New(host, 5*time.Millisecond)
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := scheduler.Start(ctx, loop.Compose(c, loop.NopView{})); err != nil {
		panic(err)
	}
	_ = host.Run(ctx)
	<-scheduler.Done()

	fmt.Println("state:", scheduler.State())
	// Output:
	// state: Stopped
}
