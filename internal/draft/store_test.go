package draft_test

import (
	"context"
	"time"

	"github.com/alicebob/miniredis/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"github.com/flowdraft/flowdraft/internal/draft"
)

var _ = Describe("RedisStore", func() {
	var (
		ctx   context.Context
		mini  *miniredis.Miniredis
		store *draft.RedisStore
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		mini, err = miniredis.Run()
		Expect(err).NotTo(HaveOccurred())
		store = draft.NewRedisStore(redis.NewClient(&redis.Options{Addr: mini.Addr()}), 30*time.Minute)
	})

	AfterEach(func() {
		mini.Close()
	})

	It("round-trips a draft", func() {
		created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		Expect(store.Set(ctx, &draft.Draft{
			Graph:          simpleGraph(),
			OriginalPrompt: "post webhooks to slack",
			UserID:         "user-1",
			CreatedAt:      created,
		})).To(Succeed())

		d, err := store.Get(ctx, "user-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(d.OriginalPrompt).To(Equal("post webhooks to slack"))
		Expect(d.CreatedAt.Equal(created)).To(BeTrue())
		Expect(d.Graph.Nodes).To(HaveLen(1))
	})

	It("returns nil without error on an empty slot", func() {
		d, err := store.Get(ctx, "user-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(BeNil())
	})

	It("deletes the slot", func() {
		Expect(store.Set(ctx, &draft.Draft{
			Graph:  simpleGraph(),
			UserID: "user-1",
		})).To(Succeed())
		Expect(store.Delete(ctx, "user-1")).To(Succeed())

		d, err := store.Get(ctx, "user-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(BeNil())
	})

	It("stores the slot under draft:{userId} with a safety expiry", func() {
		Expect(store.Set(ctx, &draft.Draft{
			Graph:  simpleGraph(),
			UserID: "user-1",
		})).To(Succeed())

		Expect(mini.Exists("draft:user-1")).To(BeTrue())
		Expect(mini.TTL("draft:user-1")).To(Equal(time.Hour))
	})
})
