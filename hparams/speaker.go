package hparams

import (
	"fmt"

	"github.com/signadot/hconf/ir"
)

// SpeakerConfig is a speaker verification training run: a NEST
// preprocessor and encoder feeding an ECAPA-TDNN pooling head.
type SpeakerConfig struct {
	Name       string       `hconf:"name,required"`
	SampleRate int          `hconf:"sample_rate"`
	Model      SpeakerModel `hconf:"model,required"`
	Trainer    Trainer      `hconf:"trainer,required"`
	ExpManager *ExpManager  `hconf:"exp_manager,omitempty"`
}

type SpeakerModel struct {
	SampleRate   int            `hconf:"sample_rate"`
	TrainDS      Dataset        `hconf:"train_ds,required"`
	ValidationDS *Dataset       `hconf:"validation_ds,omitempty"`
	Preprocessor Preprocessor   `hconf:"preprocessor,required"`
	Encoder      SpeakerEncoder `hconf:"encoder,required"`
	Decoder      SpeakerDecoder `hconf:"decoder,required"`
	Loss         AngularLoss    `hconf:"loss"`
	Optim        Optim          `hconf:"optim,required"`
}

// Dataset describes one manifest backed audio dataset.
type Dataset struct {
	ManifestFilepath string              `hconf:"manifest_filepath,required"`
	SampleRate       int                 `hconf:"sample_rate"`
	Labels           []string            `hconf:"labels,omitempty"`
	BatchSize        int                 `hconf:"batch_size"`
	Shuffle          bool                `hconf:"shuffle"`
	NumWorkers       int                 `hconf:"num_workers"`
	// Augmentor is kept as written; each augmentation has its own keys.
	Augmentor        map[string]*ir.Node `hconf:"augmentor,omitempty"`
}

// Preprocessor configures the mel filterbank front end.
type Preprocessor struct {
	Normalize     string  `hconf:"normalize"`
	WindowSize    float64 `hconf:"window_size"`
	WindowStride  float64 `hconf:"window_stride"`
	Window        string  `hconf:"window"`
	Features      int     `hconf:"features"`
	NFFT          int     `hconf:"n_fft"`
	FrameSplicing int     `hconf:"frame_splicing"`
	Dither        float64 `hconf:"dither"`
}

// SpeakerEncoder is an ECAPA-TDNN encoder. Filters, KernelSizes and
// Dilations describe one block each.
type SpeakerEncoder struct {
	FeatIn      int    `hconf:"feat_in"`
	Activation  string `hconf:"activation"`
	ConvMask    bool   `hconf:"conv_mask"`
	Filters     []int  `hconf:"filters"`
	KernelSizes []int  `hconf:"kernel_sizes"`
	Dilations   []int  `hconf:"dilations"`
	Scale       int    `hconf:"scale"`
}

type SpeakerDecoder struct {
	FeatIn     int    `hconf:"feat_in"`
	NumClasses int    `hconf:"num_classes"`
	PoolMode   string `hconf:"pool_mode"`
	EmbSizes   int    `hconf:"emb_sizes"`
	Angular    bool   `hconf:"angular"`
}

// AngularLoss holds the additive angular margin loss parameters.
type AngularLoss struct {
	Scale  float64 `hconf:"scale"`
	Margin float64 `hconf:"margin"`
}

type Optim struct {
	Name        string    `hconf:"name"`
	LR          float64   `hconf:"lr"`
	WeightDecay float64   `hconf:"weight_decay"`
	Momentum    float64   `hconf:"momentum,omitempty"`
	Betas       []float64 `hconf:"betas,omitempty"`
	Sched       *Sched    `hconf:"sched,omitempty"`
}

type Sched struct {
	Name        string  `hconf:"name"`
	WarmupRatio float64 `hconf:"warmup_ratio,omitempty"`
	WarmupSteps int     `hconf:"warmup_steps,omitempty"`
	MinLR       float64 `hconf:"min_lr"`
}

// Trainer is the subset of trainer settings shared by both families.
type Trainer struct {
	Devices               int       `hconf:"devices"`
	NumNodes              int       `hconf:"num_nodes"`
	MaxEpochs             int       `hconf:"max_epochs,omitempty"`
	MaxSteps              int       `hconf:"max_steps"`
	Accelerator           string    `hconf:"accelerator"`
	Strategy              string    `hconf:"strategy,omitempty"`
	Precision             Precision `hconf:"precision"`
	AccumulateGradBatches int       `hconf:"accumulate_grad_batches,omitempty"`
	LogEveryNSteps        int       `hconf:"log_every_n_steps"`
	ValCheckInterval      float64   `hconf:"val_check_interval"`
	GradientClipVal       float64   `hconf:"gradient_clip_val"`
}

type ExpManager struct {
	ExpDir                   string            `hconf:"exp_dir"`
	Name                     string            `hconf:"name"`
	CreateCheckpointCallback bool              `hconf:"create_checkpoint_callback"`
	CheckpointCallbackParams *CheckpointParams `hconf:"checkpoint_callback_params,omitempty"`
}

type CheckpointParams struct {
	Monitor  string `hconf:"monitor"`
	Mode     string `hconf:"mode"`
	SaveTopK int    `hconf:"save_top_k"`
}

var (
	speakerOptimizers = []string{"adam", "adamw", "sgd", "novograd", "lamb"}
	speakerScheds     = []string{
		"CosineAnnealing", "WarmupAnnealing", "NoamAnnealing",
		"PolynomialDecayAnnealing", "InverseSquareRootAnnealing",
	}
	normalizations = []string{"per_feature", "all_features"}
	windows        = []string{"hann", "hamming", "blackman", "bartlett", "none"}
	poolModes      = []string{"xvector", "tap", "attention"}
	activations    = []string{"relu", "gelu", "swish", "silu", "tanh"}
	accelerators   = []string{"gpu", "cpu", "tpu", "auto"}
	monitorModes   = []string{"min", "max"}
)

// Validate checks the enumerations and the encoder block layout.
func (c *SpeakerConfig) Validate() error {
	ck := &checker{}
	m := &c.Model
	positive(ck, "sample_rate", c.SampleRate)
	if m.SampleRate != c.SampleRate {
		ck.fail("model.sample_rate", "equal", "%d differs from sample_rate %d", m.SampleRate, c.SampleRate)
	}
	m.TrainDS.check(ck, "model.train_ds")
	if m.ValidationDS != nil {
		m.ValidationDS.check(ck, "model.validation_ds")
	}

	p := &m.Preprocessor
	ck.oneOf("model.preprocessor.normalize", p.Normalize, normalizations...)
	ck.oneOf("model.preprocessor.window", p.Window, windows...)
	positive(ck, "model.preprocessor.window_size", p.WindowSize)
	positive(ck, "model.preprocessor.window_stride", p.WindowStride)
	if p.WindowStride >= p.WindowSize {
		ck.fail("model.preprocessor.window_stride", "less", "%v is not less than window_size %v", p.WindowStride, p.WindowSize)
	}
	positive(ck, "model.preprocessor.features", p.Features)
	if p.NFFT&(p.NFFT-1) != 0 || p.NFFT <= 0 {
		ck.fail("model.preprocessor.n_fft", "pow2", "%d is not a power of two", p.NFFT)
	}
	if win := int(p.WindowSize * float64(m.SampleRate)); p.NFFT < win {
		ck.fail("model.preprocessor.n_fft", "window", "%d is shorter than the window (%d samples)", p.NFFT, win)
	}

	e := &m.Encoder
	ck.oneOf("model.encoder.activation", e.Activation, activations...)
	if e.FeatIn != p.Features {
		ck.fail("model.encoder.feat_in", "equal", "%d differs from preprocessor features %d", e.FeatIn, p.Features)
	}
	if len(e.Filters) == 0 {
		ck.fail("model.encoder.filters", "nonempty", "no blocks")
	}
	if len(e.KernelSizes) != len(e.Filters) {
		ck.fail("model.encoder.kernel_sizes", "length", "has %d entries, filters has %d", len(e.KernelSizes), len(e.Filters))
	}
	if len(e.Dilations) != len(e.Filters) {
		ck.fail("model.encoder.dilations", "length", "has %d entries, filters has %d", len(e.Dilations), len(e.Filters))
	}
	for i, f := range e.Filters {
		positive(ck, fmt.Sprintf("model.encoder.filters[%d]", i), f)
	}
	positive(ck, "model.encoder.scale", e.Scale)

	d := &m.Decoder
	ck.oneOf("model.decoder.pool_mode", d.PoolMode, poolModes...)
	if n := len(e.Filters); n > 0 && d.FeatIn != e.Filters[n-1] {
		ck.fail("model.decoder.feat_in", "equal", "%d differs from the last encoder block (%d)", d.FeatIn, e.Filters[n-1])
	}
	positive(ck, "model.decoder.num_classes", d.NumClasses)
	positive(ck, "model.decoder.emb_sizes", d.EmbSizes)
	if d.Angular {
		positive(ck, "model.loss.scale", m.Loss.Scale)
		inRange(ck, "model.loss.margin", m.Loss.Margin, 0, 1)
	}

	m.Optim.check(ck, "model.optim", speakerOptimizers, speakerScheds)
	c.Trainer.check(ck, "trainer")
	if em := c.ExpManager; em != nil && em.CheckpointCallbackParams != nil {
		ck.oneOf("exp_manager.checkpoint_callback_params.mode", em.CheckpointCallbackParams.Mode, monitorModes...)
	}
	return ck.err()
}

func (ds *Dataset) check(ck *checker, path string) {
	positive(ck, path+".batch_size", ds.BatchSize)
	if ds.NumWorkers < 0 {
		ck.fail(path+".num_workers", "nonnegative", "must not be negative, got %d", ds.NumWorkers)
	}
}

func (o *Optim) check(ck *checker, path string, names, scheds []string) {
	ck.oneOf(path+".name", o.Name, names...)
	positive(ck, path+".lr", o.LR)
	if o.WeightDecay < 0 {
		ck.fail(path+".weight_decay", "nonnegative", "must not be negative, got %v", o.WeightDecay)
	}
	if o.Sched == nil {
		return
	}
	ck.oneOf(path+".sched.name", o.Sched.Name, scheds...)
	inRange(ck, path+".sched.warmup_ratio", o.Sched.WarmupRatio, 0, 1)
	if o.Sched.MinLR > o.LR {
		ck.fail(path+".sched.min_lr", "le", "%v exceeds lr %v", o.Sched.MinLR, o.LR)
	}
}

func (t *Trainer) check(ck *checker, path string) {
	positive(ck, path+".devices", t.Devices)
	positive(ck, path+".num_nodes", t.NumNodes)
	ck.oneOf(path+".accelerator", t.Accelerator, accelerators...)
	if !t.Precision.Valid() {
		ck.fail(path+".precision", "enum", "unknown precision %q", t.Precision)
	}
	if t.MaxSteps == 0 || t.MaxSteps < -1 {
		ck.fail(path+".max_steps", "range", "must be -1 or positive, got %d", t.MaxSteps)
	}
	if t.GradientClipVal < 0 {
		ck.fail(path+".gradient_clip_val", "nonnegative", "must not be negative, got %v", t.GradientClipVal)
	}
}

// WorldSize is the total number of devices.
func (t *Trainer) WorldSize() int {
	return t.Devices * t.NumNodes
}
