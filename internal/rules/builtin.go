package rules

// Sampler node types managed by the builtin rule set.
var (
	SamplerNodeTypes = []string{
		"ClownsharKSampler_Beta",
		"ClownSampler_Beta",
		"ClownSamplerAdvanced_Beta",
		"ClownsharkChainsampler_Beta",
	}
	NoiseSamplerNodeTypes = []string{
		"SharkSampler_Beta",
		"SharkSamplerAdvanced_Beta",
	}
)

// Widgets with a global hide-by-default preference in the builtin set.
const (
	WidgetExtraOptions         = "extra_options"
	WidgetTruncateConditioning = "truncate_conditioning"
	WidgetNoiseSeedSDE         = "noise_seed_sde"
)

var guideRule = ConnectionRule{
	ControllingInputs: []string{"latent_guide", "latent_guide_inv"},
	TargetWidgets:     []string{"latent_guide_weight", "guide_mode"},
}

// SamplerConfig is shared by every sampler node type in SamplerNodeTypes.
// Fractal noise reads alpha and k; the SDE noise has its own pair.
func SamplerConfig() NodeTypeConfig {
	return NodeTypeConfig{
		ValueRules: []ValueRule{
			{
				ControllingWidgets: []string{"noise_type"},
				TriggerValues:      []any{"fractal"},
				TargetWidgets:      []string{"alpha", "k"},
			},
			{
				ControllingWidgets: []string{"noise_type_sde", "noise_type_sde_substep"},
				TriggerValues:      []any{"fractal"},
				TargetWidgets:      []string{"alpha_sde", "k_sde"},
			},
		},
		ConnectionRules: []ConnectionRule{guideRule},
	}
}

// NoiseSamplerConfig covers nodes whose noise generator also exposes scale.
func NoiseSamplerConfig() NodeTypeConfig {
	return NodeTypeConfig{
		ValueRules: []ValueRule{
			{
				ControllingWidgets: []string{"noise_sampler_type"},
				TriggerValues:      []any{"fractal"},
				TargetWidgets:      []string{"alpha", "k", "scale"},
			},
		},
		ConnectionRules: []ConnectionRule{guideRule},
	}
}

// BuiltinToggleables returns the default globally toggleable widgets.
func BuiltinToggleables() []ToggleableWidget {
	return []ToggleableWidget{
		{WidgetName: WidgetExtraOptions, DefaultHidden: true, Label: "Hide extra options by default"},
		{WidgetName: WidgetTruncateConditioning, DefaultHidden: true, Label: "Hide truncate conditioning by default"},
		{WidgetName: WidgetNoiseSeedSDE, DefaultHidden: false, Label: "Hide SDE noise seed by default"},
	}
}

// RegisterBuiltin adds the builtin sampler rule set to r.
func RegisterBuiltin(r *Registry) error {
	if err := r.Register(SamplerConfig(), SamplerNodeTypes...); err != nil {
		return err
	}
	if err := r.Register(NoiseSamplerConfig(), NoiseSamplerNodeTypes...); err != nil {
		return err
	}
	for _, spec := range BuiltinToggleables() {
		if err := r.RegisterToggleable(spec); err != nil {
			return err
		}
	}
	return nil
}

// Builtin returns an unfrozen registry holding the builtin rule set.
func Builtin() *Registry {
	r := NewRegistry()
	// A fresh registry cannot be frozen and every builtin name is non-empty.
	_ = RegisterBuiltin(r)
	return r
}
