// Command seeder loads a small fixture dataset into the candidate store
// so a local instance has something to search. Embeddings are generated
// when an embedding API key is configured; otherwise the fixtures rely on
// text matching only.
package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/stonesoup-hq/soupsearch/internal/config"
	dbRedis "github.com/stonesoup-hq/soupsearch/internal/db/redis"
	"github.com/stonesoup-hq/soupsearch/internal/domain"
	"github.com/stonesoup-hq/soupsearch/internal/domain/member"
	"github.com/stonesoup-hq/soupsearch/internal/domain/story"
	logpkg "github.com/stonesoup-hq/soupsearch/internal/logger"
	memberrepo "github.com/stonesoup-hq/soupsearch/internal/repository/member"
	storyrepo "github.com/stonesoup-hq/soupsearch/internal/repository/story"
	openaiTransport "github.com/stonesoup-hq/soupsearch/internal/transport/openai"
)

func main() {
	cauldronID := flag.String("cauldron", "demo", "cauldron id to seed into")
	flag.Parse()

	env := config.GetEnv()
	cfg := config.MustLoad(env)

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}

	storyRepo := storyrepo.New(store, cfg.Storage.KeyPrefix)
	memberRepo := memberrepo.New(store, cfg.Storage.KeyPrefix)

	if err := storyRepo.EnsureIndex(ctx,
		cfg.Embedding.Dimensions, cfg.Search.HNSWM, cfg.Search.HNSWEFConstruct); err != nil {
		logger.Fatal("Failed to ensure story index", zap.Error(err))
	}
	if err := memberRepo.EnsureIndex(ctx,
		cfg.Embedding.Dimensions, cfg.Search.HNSWM, cfg.Search.HNSWEFConstruct); err != nil {
		logger.Fatal("Failed to ensure member index", zap.Error(err))
	}

	var embedder domain.Embedder
	if cfg.Embedding.APIKey != "" {
		embedder = openaiTransport.NewEmbedder(&openaiTransport.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Logger:     logger,
		})
	} else {
		logger.Warn("No embedding API key configured, seeding without embeddings")
	}

	members := fixtureMembers(*cauldronID)
	stories := fixtureStories(*cauldronID)

	if embedder != nil {
		for i := range stories {
			result, err := embedder.Embed(ctx, stories[i].Title+"\n"+stories[i].Content)
			if err != nil {
				logger.Warn("Failed to embed story", zap.String("id", stories[i].ID), zap.Error(err))
				continue
			}
			stories[i].Embedding = result.Embedding
		}
		for i := range members {
			result, err := embedder.Embed(ctx, members[i].Name+"\n"+members[i].Bio)
			if err != nil {
				logger.Warn("Failed to embed member", zap.String("id", members[i].ID), zap.Error(err))
				continue
			}
			members[i].ProfileEmbedding = result.Embedding
		}
	}

	if err := memberRepo.PutMulti(ctx, members); err != nil {
		logger.Fatal("Failed to seed members", zap.Error(err))
	}
	if err := storyRepo.PutMulti(ctx, stories); err != nil {
		logger.Fatal("Failed to seed stories", zap.Error(err))
	}

	logger.Info("Seeded fixtures",
		zap.String("cauldron_id", *cauldronID),
		zap.Int("stories", len(stories)),
		zap.Int("members", len(members)),
	)
}

func fixtureMembers(cauldronID string) []member.Member {
	now := time.Now().UTC()
	return []member.Member{
		{
			ID:                "mem-ana-ferreira",
			CauldronID:        cauldronID,
			Name:              "Ana Ferreira",
			Bio:               "Sustainability engineer focused on circular production lines and zero waste factories.",
			Title:             "Sustainability Engineer",
			Company:           "GreenLoop",
			Location:          "Lisbon",
			YearsOfExperience: 9,
			HourlyRate:        120,
			Skills:            []string{"sustainability", "lean manufacturing", "lifecycle analysis"},
			ExpertiseAreas:    []string{"circular economy"},
			Industries:        []string{"manufacturing"},
			IsActive:          true,
			IsVerified:        true,
			IsAvailable:       true,
			CreatedAt:         now.AddDate(-2, 0, 0),
			UpdatedAt:         now,
			LastActiveAt:      now.AddDate(0, 0, -2),
		},
		{
			ID:                "mem-jonas-weber",
			CauldronID:        cauldronID,
			Name:              "Jonas Weber",
			Bio:               "Backend engineer building event-driven data platforms in Go.",
			Title:             "Staff Engineer",
			Company:           "Datagrid",
			Location:          "Berlin",
			YearsOfExperience: 12,
			HourlyRate:        150,
			Skills:            []string{"go", "kafka", "postgres"},
			Industries:        []string{"software"},
			IsActive:          true,
			IsAvailable:       false,
			CreatedAt:         now.AddDate(-3, 0, 0),
			UpdatedAt:         now,
			LastActiveAt:      now.AddDate(0, 0, -10),
		},
		{
			ID:         "mem-priya-nair",
			CauldronID: cauldronID,
			Name:       "Priya Nair",
			Bio:        "Product designer for healthcare and accessibility.",
			Title:      "Principal Designer",
			Location:   "Bangalore",
			Skills:     []string{"product design", "accessibility", "user research"},
			Industries: []string{"healthcare"},
			IsActive:   true,
			IsVerified: true,
			CreatedAt:  now.AddDate(-1, -4, 0),
			UpdatedAt:  now,
		},
	}
}

func fixtureStories(cauldronID string) []story.Story {
	now := time.Now().UTC()
	return []story.Story{
		{
			ID:         "story-zero-waste",
			CauldronID: cauldronID,
			Title:      "Zero Waste Manufacturing",
			Content: "We redesigned the packaging line at GreenLoop to eliminate landfill waste entirely. " +
				"Over eighteen months the plant moved to closed-loop material recovery, cutting raw " +
				"material spend by 30% while hitting a certified zero waste target.",
			Summary:   "Closed-loop packaging line with a certified zero waste target.",
			Category:  story.CategoryCaseStudy,
			Status:    story.StatusPublished,
			Tags:      []string{"sustainability", "zero-waste"},
			Skills:    []string{"lean manufacturing", "lifecycle analysis"},
			Company:   "GreenLoop",
			ViewCount: 420,
			LikeCount: 61,
			CreatedAt: now.AddDate(0, -3, 0),
			UpdatedAt: now.AddDate(0, -1, 0),
			Authors:   []story.Authorship{{MemberID: "mem-ana-ferreira", Role: "author"}},
		},
		{
			ID:         "story-event-pipeline",
			CauldronID: cauldronID,
			Title:      "Scaling an Event Pipeline to a Million Messages a Second",
			Content: "A retrospective on rebuilding Datagrid's ingestion layer: partitioning strategy, " +
				"consumer rebalancing, and the backpressure design that kept p99 latency flat " +
				"through a 40x traffic increase.",
			Category:  story.CategoryExperience,
			Status:    story.StatusPublished,
			Tags:      []string{"streaming", "go"},
			Skills:    []string{"go", "kafka"},
			Company:   "Datagrid",
			ViewCount: 1280,
			LikeCount: 190,
			CreatedAt: now.AddDate(0, -7, 0),
			UpdatedAt: now.AddDate(0, -7, 0),
			Authors:   []story.Authorship{{MemberID: "mem-jonas-weber", Role: "author"}},
		},
		{
			ID:         "story-accessible-triage",
			CauldronID: cauldronID,
			Title:      "Designing an Accessible Triage App",
			Content: "How we made a hospital triage flow usable with screen readers and one-handed " +
				"operation, and what the WCAG audit taught us about color-only affordances.",
			Category:  story.CategorySkillDemonstration,
			Status:    story.StatusPublished,
			Tags:      []string{"accessibility", "healthcare"},
			Skills:    []string{"product design", "accessibility"},
			ViewCount: 310,
			LikeCount: 45,
			CreatedAt: now.AddDate(0, -1, -12),
			UpdatedAt: now.AddDate(0, -1, -12),
			Authors:   []story.Authorship{{MemberID: "mem-priya-nair", Role: "author"}},
		},
		{
			ID:         "story-draft-hidden",
			CauldronID: cauldronID,
			Title:      "Unfinished Draft",
			Content:    "This draft is not published and must never appear in search results.",
			Category:   story.CategoryThoughtLeadership,
			Status:     story.StatusDraft,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
	}
}
