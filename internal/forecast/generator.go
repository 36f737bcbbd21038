// Package forecast turns the latest known state per machine and the current
// model bank into a ranked, human-actionable risk report.
package forecast

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"maintlab/internal/domain"
	"maintlab/internal/storage"
)

// Params holds the scoring tunables. Defaults mirror the source constants;
// none of them are re-derived.
type Params struct {
	ProbHigh       float64 // tier cutoff: probability above this is High
	ProbMedium     float64 // tier cutoff: probability above this is Medium
	HorizonMinutes float64 // TTF at or beyond this displays as "stable"

	TempHigh    float64 // diagnostic thresholds on raw sensor values
	VibHigh     float64
	FanLow      float64
	CurrentHigh float64
}

// DefaultParams returns the source defaults.
func DefaultParams() Params {
	return Params{
		ProbHigh:       0.7,
		ProbMedium:     0.4,
		HorizonMinutes: 60,
		TempHigh:       80,
		VibHigh:        0.2,
		FanLow:         1200,
		CurrentHigh:    12.0,
	}
}

// Generator produces risk assessments from the feature store and model bank.
type Generator struct {
	features storage.FeatureStore
	models   storage.ModelStore
	params   Params
	logger   *zap.Logger
}

// New creates a risk forecast generator.
func New(features storage.FeatureStore, models storage.ModelStore, params Params, logger *zap.Logger) *Generator {
	return &Generator{features: features, models: models, params: params, logger: logger}
}

// Generate scores every machine's latest feature vector against all five
// failure-type models. Results are ordered by machine_id and include
// Low-risk machines.
func (g *Generator) Generate(ctx context.Context) ([]*domain.RiskAssessment, error) {
	states, err := g.features.LatestPerMachine(ctx)
	if err != nil {
		return nil, fmt.Errorf("load machine states: %w", err)
	}

	assessments := make([]*domain.RiskAssessment, 0, len(states))
	for _, state := range states {
		a, err := g.assess(ctx, state)
		if err != nil {
			return nil, fmt.Errorf("assess machine %s: %w", state.MachineID, err)
		}
		assessments = append(assessments, a)
	}

	g.logger.Info("risk report generated", zap.Int("machines", len(assessments)))
	return assessments, nil
}

// assess scores one machine. An absent model artifact is a "no signal"
// state, never an error: probability 0.0 and the default horizon.
func (g *Generator) assess(ctx context.Context, state *domain.FeatureVector) (*domain.RiskAssessment, error) {
	x := state.Values()

	top := domain.FailureNone
	topProb := 0.0
	topMinutes := g.params.HorizonMinutes

	for _, ft := range domain.AllFailureTypes {
		prob, minutes, err := g.score(ctx, ft, x)
		if err != nil {
			return nil, err
		}
		// Strictly greater: equal probabilities keep the earlier type, so
		// ties resolve in declaration order.
		if prob > topProb {
			top = ft
			topProb = prob
			topMinutes = minutes
		}
	}

	return &domain.RiskAssessment{
		MachineID:        state.MachineID,
		TopFailureType:   top,
		Probability:      topProb,
		PredictedMinutes: topMinutes,
		TimeToFail:       g.displayTTF(topMinutes),
		Tier:             g.tier(topProb),
		DiagnosticTags:   g.diagnose(state),
	}, nil
}

func (g *Generator) score(ctx context.Context, ft domain.FailureType, x []float64) (prob, minutes float64, err error) {
	prob = 0.0
	minutes = g.params.HorizonMinutes

	modelState, err := g.models.State(ctx, ft)
	if err != nil {
		return 0, 0, fmt.Errorf("model state %s: %w", ft, err)
	}

	if modelState.Classifier == storage.ArtifactPresent {
		clf, err := g.models.LoadClassifier(ctx, ft)
		if err != nil {
			return 0, 0, fmt.Errorf("load classifier %s: %w", ft, err)
		}
		prob = clf.PredictProba(x)
	}

	if modelState.Regressor == storage.ArtifactPresent {
		reg, err := g.models.LoadRegressor(ctx, ft)
		if err != nil {
			return 0, 0, fmt.Errorf("load regressor %s: %w", ft, err)
		}
		minutes = reg.Predict(x)
	}

	return prob, minutes, nil
}

func (g *Generator) tier(prob float64) domain.RiskTier {
	switch {
	case prob > g.params.ProbHigh:
		return domain.RiskHigh
	case prob > g.params.ProbMedium:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// displayTTF renders the time-to-fail estimate for humans.
func (g *Generator) displayTTF(minutes float64) string {
	switch {
	case minutes < 1:
		return "imminent"
	case minutes < g.params.HorizonMinutes:
		return fmt.Sprintf("%d min", int(math.Round(minutes)))
	default:
		return "stable"
	}
}

// diagnose derives indicator tags from raw (non-rolling) sensor values.
// Independent of model output.
func (g *Generator) diagnose(state *domain.FeatureVector) []string {
	var tags []string
	if state.Temperature > g.params.TempHigh {
		tags = append(tags, "High Temp")
	}
	if state.Vibration > g.params.VibHigh {
		tags = append(tags, "High Vib")
	}
	if state.FanSpeed < g.params.FanLow {
		tags = append(tags, "Low Fan")
	}
	if state.Current > g.params.CurrentHigh {
		tags = append(tags, "High Current")
	}
	return tags
}
