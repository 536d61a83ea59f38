// Command feeddemo pushes a simulated market-data feed through a blocking
// deque and drains it with a pool of consumers.
//
// Usage:
//
//	go run ./cmd/feeddemo -ticks 10000 -workers 4 -poll 50ms
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xyhelper/xydeque/blockingdeque"
	"github.com/xyhelper/xydeque/pipeline"
)

// Tick is one market-data update.
type Tick struct {
	ID     uuid.UUID
	Symbol string
	Price  decimal.Decimal
	At     time.Time
}

var priceStep = decimal.RequireFromString("0.2")

func main() {
	ticks := flag.Int("ticks", 1000, "number of ticks to publish")
	symbols := flag.String("symbols", "IF2412,IC2412,rb2501", "comma separated instruments")
	workers := flag.Int("workers", 2, "consumer goroutines")
	interval := flag.Duration("interval", 100*time.Microsecond, "delay between ticks")
	poll := flag.Duration("poll", 100*time.Millisecond, "consumer wait per poll; negative waits forever")
	debug := flag.Bool("debug", false, "development logging at debug level")
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "feeddemo: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dq := blockingdeque.New[Tick]()
	book := newLastPrices()
	consumer := pipeline.New(dq, book,
		pipeline.WithName("md"),
		pipeline.WithWorkers(*workers),
		pipeline.WithPollTimeout(*poll),
		pipeline.WithLogger(log),
	)

	go func() {
		<-ctx.Done()
		if left := dq.Close(); len(left) > 0 {
			log.Warnw("shutdown dropped queued ticks", "count", len(left))
		}
	}()
	go publish(ctx, dq, strings.Split(*symbols, ","), *ticks, *interval, log)

	start := time.Now()
	if err := consumer.Run(context.Background()); err != nil {
		log.Errorw("consumer failed", "error", err)
	}
	s := consumer.Stats()
	log.Infow("feed finished",
		"elapsed", time.Since(start),
		"processed", s.Processed,
		"failed", s.Failed,
		"idle_polls", s.IdlePolls,
	)
	book.print(os.Stdout)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// publish runs the feed: a random walk per symbol, pushed to the back of the
// deque. The deque is drained once the feed ends.
func publish(ctx context.Context, dq *blockingdeque.Deque[Tick], symbols []string, n int, interval time.Duration, log *zap.SugaredLogger) {
	defer dq.Drain()
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	prices := make(map[string]decimal.Decimal, len(symbols))
	for _, sym := range symbols {
		prices[sym] = decimal.NewFromInt(int64(3000 + rnd.Intn(1000)))
	}
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			log.Infow("feed interrupted", "published", i)
			return
		}
		sym := symbols[rnd.Intn(len(symbols))]
		p := prices[sym].Add(priceStep.Mul(decimal.NewFromInt(int64(rnd.Intn(5) - 2))))
		prices[sym] = p
		if !dq.PushBack(Tick{ID: uuid.New(), Symbol: sym, Price: p, At: time.Now()}) {
			log.Warnw("deque closed, feed stopping", "published", i)
			return
		}
		if interval > 0 {
			time.Sleep(interval)
		}
	}
	log.Infow("feed complete", "published", n)
}

// lastPrices is the downstream collaborator: it keeps the latest price and a
// tick count per symbol.
type lastPrices struct {
	mu    sync.Mutex
	last  map[string]Tick
	count map[string]int
}

func newLastPrices() *lastPrices {
	return &lastPrices{last: make(map[string]Tick), count: make(map[string]int)}
}

func (b *lastPrices) Handle(_ context.Context, t Tick) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if prev, ok := b.last[t.Symbol]; !ok || !t.At.Before(prev.At) {
		b.last[t.Symbol] = t
	}
	b.count[t.Symbol]++
	return nil
}

func (b *lastPrices) print(w io.Writer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	syms := make([]string, 0, len(b.last))
	for s := range b.last {
		syms = append(syms, s)
	}
	sort.Strings(syms)
	for _, s := range syms {
		t := b.last[s]
		fmt.Fprintf(w, "%-8s last=%s ticks=%d id=%s\n", s, t.Price.StringFixed(1), b.count[s], t.ID)
	}
}
