package game

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/redis/go-redis/v9"

	"github.com/michael-h-patrianna/plinko-sub002/internal/config"
	"github.com/michael-h-patrianna/plinko-sub002/internal/models"
	"github.com/michael-h-patrianna/plinko-sub002/internal/physics"
	"github.com/michael-h-patrianna/plinko-sub002/internal/prize"
)

// SettleChannel is the redis pub/sub channel round outcomes are announced on.
const SettleChannel = "plinko:round:settled"

// SettleEvent is the payload published when a round settles.
type SettleEvent struct {
	RoundToken    string `json:"round_token"`
	LandedSlot    int    `json:"landed_slot"`
	MatchedTarget bool   `json:"matched_target"`
	Source        string `json:"source"`
}

// Manager orchestrates a round end to end: prize selection, trajectory
// search, persistence, cache, and the settle announcement.
type Manager struct {
	db  *sqlx.DB
	rdb *redis.Client
	cfg *config.Config
}

func NewManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) *Manager {
	return &Manager{db: db, rdb: rdb, cfg: cfg}
}

// RoundRequest describes one play of the prize game.
type RoundRequest struct {
	Board       physics.BoardConfig
	Seed        int64 // 0 means the server picks one
	SlotWeights []int // nil means uniform
	DropZone    *physics.DropZone
	MaxAttempts int

	// Precomputed carries an externally decided trajectory from a fairness
	// authority; when set, the engine validates it instead of simulating.
	Precomputed *physics.PrecomputedTrajectory
}

// RoundResult is what the API returns for a played round.
type RoundResult struct {
	RoundToken string                            `json:"round_token"`
	Seed       int64                             `json:"seed"`
	TargetSlot int                               `json:"target_slot"`
	Result     *physics.GenerateTrajectoryResult `json:"result"`
	Receipt    string                            `json:"receipt"`
}

// PlayRound runs one round. Hard errors (bad configuration, no valid
// trajectory at all) come back as errors; soft outcomes (target missed,
// precomputed mismatch) travel inside Result.Failure.
func (m *Manager) PlayRound(ctx context.Context, req RoundRequest) (*RoundResult, error) {
	seed := req.Seed
	if seed == 0 {
		seed = randomSeed()
	}

	var target *int
	if req.Precomputed == nil {
		selector, err := m.selector(req)
		if err != nil {
			return nil, err
		}
		t := selector.Pick(seed)
		target = &t
	} else if req.Precomputed.LandingSlot != nil {
		t := *req.Precomputed.LandingSlot
		target = &t
	}

	maxAttempts := req.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = m.cfg.DefaultMaxAttempts
	}

	genParams := physics.GenerateParams{
		Board:       req.Board,
		Seed:        seed,
		TargetSlot:  target,
		DropZone:    req.DropZone,
		MaxAttempts: maxAttempts,
		Precomputed: req.Precomputed,
	}

	result, err := m.generateCached(ctx, genParams)
	if err != nil {
		return nil, err
	}

	token := generateRoundToken()
	provider := ""
	if req.Precomputed != nil {
		provider = req.Precomputed.Provider
	}
	if err := m.persistRound(ctx, token, genParams, result, provider); err != nil {
		// The trajectory is still good; log and keep going so the player sees
		// their round even if the audit write is down.
		log.Printf("[ROUND] failed to persist round %s: %v", token, err)
	}

	m.publishSettle(ctx, token, result)

	receipt, err := m.signReceipt(token, seed, result)
	if err != nil {
		log.Printf("[ROUND] failed to sign receipt for %s: %v", token, err)
	}

	targetSlot := result.LandedSlot
	if target != nil {
		targetSlot = *target
	}
	return &RoundResult{
		RoundToken: token,
		Seed:       seed,
		TargetSlot: targetSlot,
		Result:     result,
		Receipt:    receipt,
	}, nil
}

func (m *Manager) selector(req RoundRequest) (*prize.Selector, error) {
	if req.SlotWeights == nil {
		return prize.Uniform(req.Board.SlotCount), nil
	}
	if len(req.SlotWeights) != req.Board.SlotCount {
		return nil, &physics.ConfigError{
			Field:  "slot_weights",
			Reason: fmt.Sprintf("expected %d weights, got %d", req.Board.SlotCount, len(req.SlotWeights)),
		}
	}
	return prize.NewSelector(req.SlotWeights)
}

// generateCached is a cache-aside wrapper around the engine. Identical
// requests are fully deterministic, so the cached result is exactly what a
// fresh search would produce.
func (m *Manager) generateCached(ctx context.Context, params physics.GenerateParams) (*physics.GenerateTrajectoryResult, error) {
	if params.Precomputed != nil {
		return physics.GenerateTrajectory(params)
	}

	key := trajectoryCacheKey(params)
	if data, err := m.rdb.Get(ctx, key).Bytes(); err == nil {
		var cached physics.GenerateTrajectoryResult
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
		log.Printf("[ROUND] dropping unreadable cache entry %s", key)
	}

	result, err := physics.GenerateTrajectory(params)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(result); err == nil {
		ttl := time.Duration(m.cfg.TrajectoryCacheTTLMin) * time.Minute
		if err := m.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
			log.Printf("[ROUND] cache write failed for %s: %v", key, err)
		}
	}
	return result, nil
}

func trajectoryCacheKey(p physics.GenerateParams) string {
	target := -1
	if p.TargetSlot != nil {
		target = *p.TargetSlot
	}
	zone := ""
	if p.DropZone != nil {
		zone = fmt.Sprintf("%s:%.3f-%.3f", p.DropZone.Name, p.DropZone.From, p.DropZone.To)
	}
	return fmt.Sprintf("plinko:traj:%gx%g:r%d:s%d:seed%d:t%d:a%d:%s",
		p.Board.Width, p.Board.Height, p.Board.PegRows, p.Board.SlotCount,
		p.Seed, target, p.MaxAttempts, zone)
}

func (m *Manager) persistRound(ctx context.Context, token string, params physics.GenerateParams, result *physics.GenerateTrajectoryResult, provider string) error {
	trajJSON, err := json.Marshal(result.Trajectory)
	if err != nil {
		return fmt.Errorf("marshal trajectory: %w", err)
	}

	round := models.PlinkoRound{
		RoundToken:    token,
		BoardWidth:    params.Board.Width,
		BoardHeight:   params.Board.Height,
		PegRows:       params.Board.PegRows,
		SlotCount:     params.Board.SlotCount,
		Seed:          params.Seed,
		LandedSlot:    result.LandedSlot,
		MatchedTarget: result.MatchedTarget,
		Attempts:      result.Attempts,
		Source:        result.Source,
		Trajectory:    types.JSONText(trajJSON),
	}
	if params.TargetSlot != nil {
		round.TargetSlot = sql.NullInt64{Int64: int64(*params.TargetSlot), Valid: true}
	}
	if result.Failure != "" {
		round.Failure = sql.NullString{String: result.Failure, Valid: true}
	}
	if provider != "" {
		round.Provider = sql.NullString{String: provider, Valid: true}
	}

	_, err = m.db.NamedExecContext(ctx, `
		INSERT INTO plinko_rounds
			(round_token, board_width, board_height, peg_rows, slot_count,
			 seed, target_slot, landed_slot, matched_target, attempts,
			 source, failure, provider, trajectory)
		VALUES
			(:round_token, :board_width, :board_height, :peg_rows, :slot_count,
			 :seed, :target_slot, :landed_slot, :matched_target, :attempts,
			 :source, :failure, :provider, :trajectory)`, &round)
	return err
}

// GetRound loads a persisted round by its token.
func (m *Manager) GetRound(ctx context.Context, token string) (*models.PlinkoRound, error) {
	var round models.PlinkoRound
	err := m.db.GetContext(ctx, &round,
		"SELECT * FROM plinko_rounds WHERE round_token = $1", token)
	if err != nil {
		return nil, err
	}
	return &round, nil
}

func (m *Manager) publishSettle(ctx context.Context, token string, result *physics.GenerateTrajectoryResult) {
	event := SettleEvent{
		RoundToken:    token,
		LandedSlot:    result.LandedSlot,
		MatchedTarget: result.MatchedTarget,
		Source:        result.Source,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := m.rdb.Publish(ctx, SettleChannel, data).Err(); err != nil {
		log.Printf("[ROUND] settle publish failed for %s: %v", token, err)
	}
}

// signReceipt issues an HS256 token over the round outcome so operators can
// later prove what was decided and when.
func (m *Manager) signReceipt(token string, seed int64, result *physics.GenerateTrajectoryResult) (string, error) {
	claims := jwt.MapClaims{
		"round_token":    token,
		"seed":           seed,
		"landed_slot":    result.LandedSlot,
		"matched_target": result.MatchedTarget,
		"source":         result.Source,
		"iat":            time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.cfg.JWTSecret))
}

// generateRoundToken returns a short random hex token used as the external
// round identifier.
func generateRoundToken() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("rt_%d", time.Now().UnixNano()%100000000)
	}
	return hex.EncodeToString(b)
}

func randomSeed() int64 {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return time.Now().UnixNano()
	}
	var seed int64
	for _, v := range b {
		seed = seed<<8 | int64(v)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return seed
}
