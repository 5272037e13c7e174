package credential_test

import (
	"context"

	"github.com/alicebob/miniredis/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"github.com/flowdraft/flowdraft/internal/credential"
)

var _ = Describe("RedisStore", func() {
	var (
		ctx   context.Context
		mini  *miniredis.Miniredis
		store *credential.RedisStore
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		mini, err = miniredis.Run()
		Expect(err).NotTo(HaveOccurred())
		store = credential.NewRedisStore(redis.NewClient(&redis.Options{Addr: mini.Addr()}))
	})

	AfterEach(func() {
		mini.Close()
	})

	It("round-trips a credential id", func() {
		Expect(store.Set(ctx, "user-1", "gmailOAuth2Api", "42")).To(Succeed())

		id, err := store.Get(ctx, "user-1", "gmailOAuth2Api")
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal("42"))
	})

	It("returns empty without error on a miss", func() {
		id, err := store.Get(ctx, "user-1", "slackOAuth2Api")
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(BeEmpty())
	})

	It("keeps users isolated", func() {
		Expect(store.Set(ctx, "user-1", "gmailOAuth2Api", "42")).To(Succeed())

		id, err := store.Get(ctx, "user-2", "gmailOAuth2Api")
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(BeEmpty())
	})

	It("stores each user's credentials in one hash", func() {
		Expect(store.Set(ctx, "user-1", "gmailOAuth2Api", "42")).To(Succeed())
		Expect(store.Set(ctx, "user-1", "slackOAuth2Api", "7")).To(Succeed())

		fields, err := mini.HKeys("cred:user-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(fields).To(ConsistOf("gmailOAuth2Api", "slackOAuth2Api"))
	})
})
