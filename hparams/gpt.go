package hparams

import "fmt"

// GPTConfig is a Megatron style decoder only pretraining run.
type GPTConfig struct {
	Name        string      `hconf:"name,required"`
	Model       GPTModel    `hconf:"model,required"`
	Parallelism Parallelism `hconf:"parallelism,required"`
	Optim       GPTOptim    `hconf:"optim,required"`
	Data        GPTData     `hconf:"data,required"`
	Trainer     Trainer     `hconf:"trainer,required"`
}

type GPTModel struct {
	NumLayers                       int     `hconf:"num_layers"`
	HiddenSize                      int     `hconf:"hidden_size"`
	FFNHiddenSize                   int     `hconf:"ffn_hidden_size"`
	NumAttentionHeads               int     `hconf:"num_attention_heads"`
	NumQueryGroups                  int     `hconf:"num_query_groups,omitempty"`
	KVChannels                      int     `hconf:"kv_channels,omitempty"`
	SeqLength                       int     `hconf:"seq_length"`
	MaxPositionEmbeddings           int     `hconf:"max_position_embeddings"`
	Normalization                   string  `hconf:"normalization"`
	Activation                      string  `hconf:"activation"`
	PositionEmbeddingType           string  `hconf:"position_embedding_type"`
	RotaryBase                      float64 `hconf:"rotary_base,omitempty"`
	LayernormEpsilon                float64 `hconf:"layernorm_epsilon"`
	InitMethodStd                   float64 `hconf:"init_method_std"`
	AttentionDropout                float64 `hconf:"attention_dropout"`
	HiddenDropout                   float64 `hconf:"hidden_dropout"`
	AddBiasLinear                   bool    `hconf:"add_bias_linear"`
	GatedLinearUnit                 bool    `hconf:"gated_linear_unit"`
	ShareEmbeddingsAndOutputWeights bool    `hconf:"share_embeddings_and_output_weights"`
	MakeVocabSizeDivisibleBy        int     `hconf:"make_vocab_size_divisible_by"`
	// WindowSize is the sliding attention window (left, right); nil
	// means full attention.
	WindowSize []int `hconf:"window_size,omitempty"`
}

// Parallelism splits the model and the batch over devices.
type Parallelism struct {
	TensorModelParallelSize          int  `hconf:"tensor_model_parallel_size"`
	PipelineModelParallelSize        int  `hconf:"pipeline_model_parallel_size"`
	ContextParallelSize              int  `hconf:"context_parallel_size"`
	SequenceParallel                 bool `hconf:"sequence_parallel"`
	VirtualPipelineModelParallelSize *int `hconf:"virtual_pipeline_model_parallel_size"`
	// ExpertModelParallelSize spreads the experts of MoE layers; unset
	// means 1.
	ExpertModelParallelSize int `hconf:"expert_model_parallel_size,omitempty"`
}

// ExpertParallelSize is ExpertModelParallelSize with the default applied.
func (p *Parallelism) ExpertParallelSize() int {
	if p.ExpertModelParallelSize <= 0 {
		return 1
	}
	return p.ExpertModelParallelSize
}

type GPTOptim struct {
	Optimizer   string   `hconf:"optimizer"`
	LR          float64  `hconf:"lr"`
	MinLR       float64  `hconf:"min_lr"`
	WeightDecay float64  `hconf:"weight_decay"`
	AdamBeta1   float64  `hconf:"adam_beta1,omitempty"`
	AdamBeta2   float64  `hconf:"adam_beta2,omitempty"`
	ClipGrad    float64  `hconf:"clip_grad"`
	Sched       GPTSched `hconf:"sched"`
}

type GPTSched struct {
	Name          string `hconf:"name"`
	WarmupSteps   int    `hconf:"warmup_steps"`
	ConstantSteps int    `hconf:"constant_steps"`
}

type GPTData struct {
	DataPath        []string `hconf:"data_path,required"`
	Tokenizer       string   `hconf:"tokenizer"`
	SeqLength       int      `hconf:"seq_length"`
	MicroBatchSize  int      `hconf:"micro_batch_size"`
	GlobalBatchSize int      `hconf:"global_batch_size"`
	// Split is the train,validation,test weighting, "949,50,1".
	Split string `hconf:"split"`
}

var (
	gptNormalizations = []string{"LayerNorm", "RMSNorm"}
	gptActivations    = []string{"gelu", "squared-relu", "swiglu", "geglu", "relu", "fast-swiglu"}
	positionTypes     = []string{"rope", "learned_absolute", "none"}
	gptOptimizers     = []string{"adam", "sgd"}
	gptScheds         = []string{"cosine", "linear", "constant", "WSD", "inverse-square-root"}
)

// ModelParallelSize is the number of devices holding one model replica.
func (c *GPTConfig) ModelParallelSize() int {
	p := &c.Parallelism
	return p.TensorModelParallelSize * p.PipelineModelParallelSize * p.ContextParallelSize
}

// DataParallelSize is the number of model replicas, 0 when the world
// size does not split evenly.
func (c *GPTConfig) DataParallelSize() int {
	mp := c.ModelParallelSize()
	ws := c.Trainer.WorldSize()
	if mp <= 0 || ws%mp != 0 {
		return 0
	}
	return ws / mp
}

// HeadDim is the per head width.
func (c *GPTConfig) HeadDim() int {
	if c.Model.KVChannels > 0 {
		return c.Model.KVChannels
	}
	if c.Model.NumAttentionHeads == 0 {
		return 0
	}
	return c.Model.HiddenSize / c.Model.NumAttentionHeads
}

// GradientAccumulation is the number of micro batches per step on each
// replica.
func (c *GPTConfig) GradientAccumulation() int {
	dp := c.DataParallelSize()
	if dp == 0 || c.Data.MicroBatchSize <= 0 {
		return 0
	}
	return c.Data.GlobalBatchSize / (c.Data.MicroBatchSize * dp)
}

// Validate checks the enumerations and that the model, batch and
// parallel layout divide evenly.
func (c *GPTConfig) Validate() error {
	ck := &checker{}
	c.check(ck)
	return ck.err()
}

func (c *GPTConfig) check(ck *checker) {
	m := &c.Model
	positive(ck, "model.num_layers", m.NumLayers)
	positive(ck, "model.hidden_size", m.HiddenSize)
	positive(ck, "model.ffn_hidden_size", m.FFNHiddenSize)
	positive(ck, "model.num_attention_heads", m.NumAttentionHeads)
	ck.oneOf("model.normalization", m.Normalization, gptNormalizations...)
	ck.oneOf("model.activation", m.Activation, gptActivations...)
	ck.oneOf("model.position_embedding_type", m.PositionEmbeddingType, positionTypes...)
	if m.NumAttentionHeads > 0 {
		ck.divides("model.hidden_size", m.HiddenSize, m.NumAttentionHeads, "num_attention_heads")
	}
	if m.NumQueryGroups > 0 {
		ck.divides("model.num_attention_heads", m.NumAttentionHeads, m.NumQueryGroups, "num_query_groups")
	}
	if m.SeqLength > m.MaxPositionEmbeddings {
		ck.fail("model.seq_length", "le", "%d exceeds max_position_embeddings %d", m.SeqLength, m.MaxPositionEmbeddings)
	}
	inRange(ck, "model.attention_dropout", m.AttentionDropout, 0, 1)
	inRange(ck, "model.hidden_dropout", m.HiddenDropout, 0, 1)
	positive(ck, "model.layernorm_epsilon", m.LayernormEpsilon)
	if m.PositionEmbeddingType == "rope" {
		positive(ck, "model.rotary_base", m.RotaryBase)
	}
	if m.WindowSize != nil && len(m.WindowSize) != 2 {
		ck.fail("model.window_size", "length", "needs 2 entries, got %d", len(m.WindowSize))
	}

	p := &c.Parallelism
	positive(ck, "parallelism.tensor_model_parallel_size", p.TensorModelParallelSize)
	positive(ck, "parallelism.pipeline_model_parallel_size", p.PipelineModelParallelSize)
	positive(ck, "parallelism.context_parallel_size", p.ContextParallelSize)
	if p.TensorModelParallelSize > 0 {
		ck.divides("model.num_attention_heads", m.NumAttentionHeads, p.TensorModelParallelSize, "tensor_model_parallel_size")
		if m.NumQueryGroups > 0 {
			ck.divides("model.num_query_groups", m.NumQueryGroups, p.TensorModelParallelSize, "tensor_model_parallel_size")
		}
	}
	if p.PipelineModelParallelSize > 0 {
		ck.divides("model.num_layers", m.NumLayers, p.PipelineModelParallelSize, "pipeline_model_parallel_size")
	}
	if v := p.VirtualPipelineModelParallelSize; v != nil {
		if p.PipelineModelParallelSize <= 1 {
			ck.fail("parallelism.virtual_pipeline_model_parallel_size", "pipeline", "needs pipeline_model_parallel_size > 1")
		} else {
			ck.divides("model.num_layers", m.NumLayers, p.PipelineModelParallelSize * *v, "pipeline stages times virtual stages")
		}
	}
	if p.SequenceParallel && p.TensorModelParallelSize <= 1 {
		ck.fail("parallelism.sequence_parallel", "tensor", "needs tensor_model_parallel_size > 1")
	}
	if p.ContextParallelSize > 0 {
		ck.divides("model.seq_length", m.SeqLength, 2*p.ContextParallelSize, "twice context_parallel_size")
	}

	o := &c.Optim
	ck.oneOf("optim.optimizer", o.Optimizer, gptOptimizers...)
	ck.oneOf("optim.sched.name", o.Sched.Name, gptScheds...)
	positive(ck, "optim.lr", o.LR)
	if o.MinLR < 0 || o.MinLR > o.LR {
		ck.fail("optim.min_lr", "range", "%v is outside [0, lr %v]", o.MinLR, o.LR)
	}
	if o.Optimizer == "adam" {
		inRange(ck, "optim.adam_beta1", o.AdamBeta1, 0, 1)
		inRange(ck, "optim.adam_beta2", o.AdamBeta2, 0, 1)
	}
	if o.Sched.WarmupSteps < 0 {
		ck.fail("optim.sched.warmup_steps", "nonnegative", "must not be negative, got %d", o.Sched.WarmupSteps)
	}

	d := &c.Data
	if len(d.DataPath) == 0 {
		ck.fail("data.data_path", "nonempty", "no data")
	}
	if d.SeqLength != m.SeqLength {
		ck.fail("data.seq_length", "equal", "%d differs from model.seq_length %d", d.SeqLength, m.SeqLength)
	}
	positive(ck, "data.micro_batch_size", d.MicroBatchSize)
	positive(ck, "data.global_batch_size", d.GlobalBatchSize)
	if err := checkSplit(d.Split); err != nil {
		ck.fail("data.split", "split", "%s", err)
	}

	c.Trainer.check(ck, "trainer")
	ws, mp := c.Trainer.WorldSize(), c.ModelParallelSize()
	switch dp := c.DataParallelSize(); {
	case mp <= 0:
	case dp == 0:
		ck.fail("trainer.devices", "divisible", "world size %d is not divisible by model parallel size %d", ws, mp)
	case d.MicroBatchSize > 0:
		ck.divides("data.global_batch_size", d.GlobalBatchSize, d.MicroBatchSize*dp, "micro_batch_size times data parallel size")
	}
	if p.ExpertModelParallelSize < 0 {
		ck.fail("parallelism.expert_model_parallel_size", "positive", "must be positive, got %d", p.ExpertModelParallelSize)
	}
}

// checkSplit checks a "train,validation,test" weighting.
func checkSplit(s string) error {
	var a, b, c float64
	n, err := fmt.Sscanf(s, "%g,%g,%g", &a, &b, &c)
	if err != nil || n != 3 {
		return fmt.Errorf("%q is not three comma separated weights", s)
	}
	if a < 0 || b < 0 || c < 0 || a+b+c == 0 {
		return fmt.Errorf("%q has no positive weight", s)
	}
	return nil
}
