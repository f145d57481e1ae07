package main

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"pixel-poker/internal/config"
	"pixel-poker/internal/game"
	"pixel-poker/internal/gateway"
	"pixel-poker/internal/logging"
	"pixel-poker/internal/session"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal().Err(err).Msg("load env failed")
	}
	logCfg, err := config.LoadLog()
	if err != nil {
		log.Fatal().Err(err).Msg("load log config failed")
	}
	if err := logging.Init(logCfg); err != nil {
		log.Fatal().Err(err).Msg("logging init failed")
	}
	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatal().Err(err).Msg("load client config failed")
	}

	ctx := context.Background()
	c, err := gateway.Dial(ctx, cfg.WSURL)
	if err != nil {
		log.Fatal().Err(err).Msg("dial failed")
	}
	defer c.Close()

	st, err := c.CreateSession(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("create session failed")
	}
	log.Info().Str("session_id", st.SessionID).Str("hand_id", st.HandID).Msg("session_created")

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	played := 0
	for played < cfg.Hands {
		switch st.Status {
		case session.StatusInProgress:
			if len(st.LegalActions) == 0 {
				log.Fatal().Str("hand_id", st.HandID).Msg("no legal actions while hand in progress")
			}
			req := decide(rnd, st.LegalActions)
			res, err := c.Act(ctx, st.SessionID, req)
			if err != nil {
				log.Fatal().Err(err).Str("action", string(req.ActionType)).Msg("action failed")
			}
			st = res.SessionState
			if res.HandComplete {
				played++
				log.Info().
					Str("hand_id", st.HandID).
					Int64("stack", st.Players.Human.Stack).
					Int64("opponent_stack", st.Players.Opponent.Stack).
					Msg("hand_complete")
			}
		case session.StatusHandComplete:
			if st, err = c.NextHand(ctx, st.SessionID); err != nil {
				log.Fatal().Err(err).Msg("next hand failed")
			}
		case session.StatusSessionComplete:
			log.Info().Int64("stack", st.Players.Human.Stack).Msg("session_complete_rebuy")
			if st, err = c.Rebuy(ctx, st.SessionID); err != nil {
				log.Fatal().Err(err).Msg("rebuy failed")
			}
		default:
			log.Fatal().Str("status", string(st.Status)).Msg("unknown session status")
		}
	}

	hands, err := c.ListHands(ctx, st.SessionID)
	if err != nil {
		log.Fatal().Err(err).Msg("list hands failed")
	}
	log.Info().Int("hands", len(hands)).Int64("stack", st.Players.Human.Stack).Msg("done")
}

// decide picks uniformly among the legal actions, sizing bets and raises at
// the minimum.
func decide(rnd *rand.Rand, legal []game.LegalAction) session.ActionRequest {
	la := legal[rnd.Intn(len(legal))]
	req := session.ActionRequest{ActionType: la.Type}
	if la.MinAmount != nil {
		amount := *la.MinAmount
		req.Amount = &amount
	}
	return req
}
