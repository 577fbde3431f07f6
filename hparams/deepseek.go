package hparams

import (
	"fmt"
	"strings"

	"github.com/signadot/hconf/ir"
)

// DeepSeekConfig is a DeepSeek V2/V3 pretraining run: a GPT layout whose
// model adds mixture of experts layers and multi-latent attention.
type DeepSeekConfig struct {
	Name        string        `hconf:"name,required"`
	Model       DeepSeekModel `hconf:"model,required"`
	Parallelism Parallelism   `hconf:"parallelism,required"`
	Optim       GPTOptim      `hconf:"optim,required"`
	Data        GPTData       `hconf:"data,required"`
	Trainer     Trainer       `hconf:"trainer,required"`
}

// DeepSeekModel keeps all settings flat under model, as Megatron does.
type DeepSeekModel struct {
	GPTModel
	MoE
	MLA
	QKLayernorm bool `hconf:"qk_layernorm"`
}

// MoE configures the mixture of experts layers. ExpertFFNHiddenSize is
// the hidden size of one routed expert.
type MoE struct {
	NumExperts               int       `hconf:"num_moe_experts"`
	ExpertFFNHiddenSize      int       `hconf:"moe_ffn_hidden_size"`
	SharedExpertFFNSize      int       `hconf:"moe_shared_expert_intermediate_size,omitempty"`
	SharedExpertOverlap      bool      `hconf:"moe_shared_expert_overlap"`
	LayerFreq                LayerFreq `hconf:"moe_layer_freq"`
	RouterTopK               int       `hconf:"moe_router_topk"`
	RouterTopKLimitedDevices *int      `hconf:"moe_router_topk_limited_devices"`
	RouterTopKScalingFactor  *float64  `hconf:"moe_router_topk_scaling_factor"`
	RouterScoreFunction      string    `hconf:"moe_router_score_function"`
	RouterPreSoftmax         bool      `hconf:"moe_router_pre_softmax"`
	RouterEnableExpertBias   bool      `hconf:"moe_router_enable_expert_bias,omitempty"`
	RouterBiasUpdateRate     float64   `hconf:"moe_router_bias_update_rate,omitempty"`
	RouterLoadBalancingType  string    `hconf:"moe_router_load_balancing_type"`
	AuxLossCoeff             float64   `hconf:"moe_aux_loss_coeff"`
	TokenDispatcherType      string    `hconf:"moe_token_dispatcher_type"`
	GroupedGEMM              bool      `hconf:"moe_grouped_gemm"`
}

// MLA configures multi-latent attention. QLoraRank nil means queries are
// not compressed.
type MLA struct {
	QLoraRank           *int    `hconf:"q_lora_rank"`
	KVLoraRank          int     `hconf:"kv_lora_rank"`
	QKHeadDim           int     `hconf:"qk_head_dim"`
	QKPosEmbHeadDim     int     `hconf:"qk_pos_emb_head_dim"`
	VHeadDim            int     `hconf:"v_head_dim"`
	RotaryScalingFactor float64 `hconf:"rotary_scaling_factor"`
	MScale              float64 `hconf:"mscale"`
	MScaleAllDim        float64 `hconf:"mscale_all_dim"`
}

// LayerFreq says which layers hold experts. Configs give either a number
// N, meaning every N-th layer starting with the first, or one 0/1 entry
// per layer.
type LayerFreq struct {
	Every   int
	Pattern []int
}

func (f *LayerFreq) FromIR(n *ir.Node) error {
	switch n.Type {
	case ir.NumberType:
		if !n.IsInt() {
			return fmt.Errorf("%w: layer frequency %s is not an integer", ir.ErrTypeMismatch, n.Number)
		}
		*f = LayerFreq{Every: int(*n.Int64)}
	case ir.ArrayType:
		pat := make([]int, len(n.Values))
		for i, v := range n.Values {
			if !v.IsInt() {
				return fmt.Errorf("%w: layer pattern entry %d is %s", ir.ErrTypeMismatch, i, v.Type)
			}
			pat[i] = int(*v.Int64)
		}
		*f = LayerFreq{Pattern: pat}
	default:
		return fmt.Errorf("%w: layer frequency is %s", ir.ErrTypeMismatch, n.Type)
	}
	return nil
}

func (f LayerFreq) ToIR() (*ir.Node, error) {
	if f.Pattern == nil {
		return ir.FromInt(int64(f.Every)), nil
	}
	elts := make([]*ir.Node, len(f.Pattern))
	for i, p := range f.Pattern {
		elts[i] = ir.FromInt(int64(p))
	}
	return ir.FromSlice(elts), nil
}

// Layers reports for each of numLayers layers whether it holds experts.
func (f LayerFreq) Layers(numLayers int) []bool {
	res := make([]bool, numLayers)
	for i := range res {
		switch {
		case f.Pattern != nil:
			res[i] = i < len(f.Pattern) && f.Pattern[i] == 1
		case f.Every > 0:
			res[i] = i%f.Every == 0
		}
	}
	return res
}

var (
	scoreFunctions  = []string{"softmax", "sigmoid"}
	dispatcherTypes = []string{"allgather", "alltoall", "flex"}
	loadBalancing   = []string{"aux_loss", "seq_aux_loss", "sinkhorn", "none"}
)

// gpt returns the GPT view of c, sharing the dense model settings.
func (c *DeepSeekConfig) gpt() *GPTConfig {
	return &GPTConfig{
		Name:        c.Name,
		Model:       c.Model.GPTModel,
		Parallelism: c.Parallelism,
		Optim:       c.Optim,
		Data:        c.Data,
		Trainer:     c.Trainer,
	}
}

// Normalize limits group limited routing to the devices holding experts.
func (c *DeepSeekConfig) Normalize() {
	if d := c.Model.RouterTopKLimitedDevices; d != nil {
		*d = min(*d, c.Parallelism.ExpertParallelSize())
	}
}

// MoELayers is the number of layers holding experts.
func (c *DeepSeekConfig) MoELayers() int {
	n := 0
	for _, moe := range c.Model.LayerFreq.Layers(c.Model.NumLayers) {
		if moe {
			n++
		}
	}
	return n
}

// QKDim is the per head query and key width: the part without position
// embedding plus the rotary part.
func (c *DeepSeekConfig) QKDim() int {
	return c.Model.QKHeadDim + c.Model.QKPosEmbHeadDim
}

// Validate runs the GPT checks and those of the expert and latent
// attention settings.
func (c *DeepSeekConfig) Validate() error {
	ck := &checker{}
	c.gpt().check(ck)
	m := &c.Model

	positive(ck, "model.num_moe_experts", m.NumExperts)
	positive(ck, "model.moe_ffn_hidden_size", m.ExpertFFNHiddenSize)
	if m.RouterTopK < 1 || m.RouterTopK > m.NumExperts {
		ck.fail("model.moe_router_topk", "range", "%d is outside [1, num_moe_experts %d]", m.RouterTopK, m.NumExperts)
	}
	if d := m.RouterTopKLimitedDevices; d != nil {
		positive(ck, "model.moe_router_topk_limited_devices", *d)
	}
	if f := m.RouterTopKScalingFactor; f != nil {
		positive(ck, "model.moe_router_topk_scaling_factor", *f)
	}
	ck.oneOf("model.moe_router_score_function", m.RouterScoreFunction, scoreFunctions...)
	ck.oneOf("model.moe_token_dispatcher_type", m.TokenDispatcherType, dispatcherTypes...)
	ck.oneOf("model.moe_router_load_balancing_type", m.RouterLoadBalancingType, loadBalancing...)
	if m.RouterEnableExpertBias && m.RouterScoreFunction != "sigmoid" {
		ck.fail("model.moe_router_enable_expert_bias", "sigmoid", "expert bias needs the sigmoid score function, got %q", m.RouterScoreFunction)
	}
	if m.AuxLossCoeff < 0 {
		ck.fail("model.moe_aux_loss_coeff", "nonnegative", "must not be negative, got %v", m.AuxLossCoeff)
	}
	c.checkLayerFreq(ck)

	if q := m.QLoraRank; q != nil {
		positive(ck, "model.q_lora_rank", *q)
	}
	positive(ck, "model.kv_lora_rank", m.KVLoraRank)
	positive(ck, "model.qk_head_dim", m.QKHeadDim)
	positive(ck, "model.qk_pos_emb_head_dim", m.QKPosEmbHeadDim)
	positive(ck, "model.v_head_dim", m.VHeadDim)
	if m.PositionEmbeddingType != "rope" {
		ck.fail("model.position_embedding_type", "enum", "multi-latent attention needs rope, got %q", m.PositionEmbeddingType)
	}
	if m.RotaryScalingFactor < 1 {
		ck.fail("model.rotary_scaling_factor", "range", "must be at least 1, got %v", m.RotaryScalingFactor)
	}

	p := &c.Parallelism
	ep := p.ExpertParallelSize()
	ck.divides("model.num_moe_experts", m.NumExperts, ep, "expert_model_parallel_size")
	if d := m.RouterTopKLimitedDevices; d != nil && *d > ep {
		ck.fail("model.moe_router_topk_limited_devices", "le", "%d exceeds expert_model_parallel_size %d", *d, ep)
	}
	if p.TensorModelParallelSize > 0 && p.PipelineModelParallelSize > 0 {
		expert := p.TensorModelParallelSize * ep * p.PipelineModelParallelSize
		if ws := c.Trainer.WorldSize(); ws%expert != 0 {
			ck.fail("parallelism.expert_model_parallel_size", "divisible",
				"world size %d is not divisible by tensor, expert and pipeline parallel sizes (%d)", ws, expert)
		}
	}
	return ck.err()
}

func (c *DeepSeekConfig) checkLayerFreq(ck *checker) {
	const path = "model.moe_layer_freq"
	f := c.Model.LayerFreq
	if f.Pattern == nil {
		positive(ck, path, f.Every)
		return
	}
	if len(f.Pattern) != c.Model.NumLayers {
		ck.fail(path, "length", "has %d entries for %d layers", len(f.Pattern), c.Model.NumLayers)
	}
	var bad []string
	for i, v := range f.Pattern {
		if v != 0 && v != 1 {
			bad = append(bad, fmt.Sprint(i))
		}
	}
	if len(bad) != 0 {
		ck.fail(path, "enum", "entries %s are not 0 or 1", strings.Join(bad, ", "))
	}
	if c.MoELayers() == 0 {
		ck.fail(path, "nonempty", "no layer holds experts")
	}
}
