package services

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// ProfileData is what an external source knows about a handle
type ProfileData struct {
	ProfileImage string `json:"profile_image"`
	Bio          string `json:"bio"`
}

// ProfileLookup fetches display data for a normalized handle.
// Implementations return ErrLookupFailed, ErrRateLimited or ErrNotFoundRemotely.
type ProfileLookup interface {
	FetchProfile(ctx context.Context, handle string) (ProfileData, error)
}

var mockProfiles = map[string]ProfileData{
	"photography_lover": {
		ProfileImage: "https://images.unsplash.com/photo-1494790108755-2616b612b5bc?w=150&h=150&fit=crop&crop=face",
		Bio:          "Capturing life's beautiful moments through my lens 📸 Travel enthusiast and coffee addict ☕",
	},
	"foodie_adventures": {
		ProfileImage: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=150&h=150&fit=crop&crop=face",
		Bio:          "Food blogger sharing culinary adventures around the world 🍕🍜 Chef by day, foodie by night",
	},
	"fitness_journey": {
		ProfileImage: "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=150&h=150&fit=crop&crop=face",
		Bio:          "Personal trainer helping you achieve your fitness goals 💪 Yoga instructor | Wellness advocate",
	},
	"art_creator": {
		ProfileImage: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&h=150&fit=crop&crop=face",
		Bio:          "Digital artist creating vibrant illustrations and designs 🎨 Commission work available",
	},
	"travel_wanderer": {
		ProfileImage: "https://images.unsplash.com/photo-1544005313-94ddf0286df2?w=150&h=150&fit=crop&crop=face",
		Bio:          "Exploring the world one destination at a time ✈️ Travel tips and hidden gems",
	},
	"music_producer": {
		ProfileImage: "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=150&h=150&fit=crop&crop=face",
		Bio:          "Music producer and DJ spinning beats that move your soul 🎵 Available for collaborations",
	},
}

var fallbackImages = []string{
	"https://images.unsplash.com/photo-1535713875002-d1d0cf377fde?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1527980965255-d3b416303d12?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1524504388940-b1c1722653e1?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1506794778202-cad84cf45f1d?w=150&h=150&fit=crop&crop=face",
	"https://images.unsplash.com/photo-1557053910-d9eadeed1c58?w=150&h=150&fit=crop&crop=face",
}

var fallbackBios = []string{
	"Creative soul sharing my journey ✨ Life is beautiful",
	"Living my best life 🌟 Follow for daily inspiration",
	"Entrepreneur | Dreamer | Achiever 💫 Making things happen",
	"Passionate about life and everything in it 🎯 Stay positive",
	"Creating content that matters 📱 Join the community",
}

// MockLookup serves canned data and random placeholders for unknown handles.
// It stands in for a real data source in development and tests.
type MockLookup struct {
	mu    sync.Mutex
	rnd   *rand.Rand
	delay time.Duration
}

// NewMockLookup creates a mock lookup. A nil rnd uses a time-seeded source.
func NewMockLookup(rnd *rand.Rand, delay time.Duration) *MockLookup {
	if rnd == nil {
		seed := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &MockLookup{rnd: rnd, delay: delay}
}

// FetchProfile implements ProfileLookup
func (m *MockLookup) FetchProfile(ctx context.Context, handle string) (ProfileData, error) {
	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ProfileData{}, ctx.Err()
		case <-timer.C:
		}
	}

	if data, ok := mockProfiles[handle]; ok {
		return data, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return ProfileData{
		ProfileImage: fallbackImages[m.rnd.IntN(len(fallbackImages))],
		Bio:          fallbackBios[m.rnd.IntN(len(fallbackBios))],
	}, nil
}
