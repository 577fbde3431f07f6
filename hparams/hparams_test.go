package hparams

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/hconf"
	"github.com/signadot/hconf/gomap"
	"github.com/signadot/hconf/ir"
	"github.com/signadot/hconf/schema"
)

var speakerData = []string{
	"model.train_ds.manifest_filepath=/data/vox/train.json",
	"model.validation_ds.manifest_filepath=/data/vox/dev.json",
}

var gptData = []string{
	"data.data_path=[/data/stack/python, /data/stack/go]",
}

func loadSpeaker(t *testing.T, extra ...string) (*SpeakerConfig, error) {
	t.Helper()
	ovs := append(slices.Clone(speakerData), extra...)
	cfg, _, err := LoadSpeaker("testdata/speaker.yaml", hconf.WithOverrides(ovs...))
	return cfg, err
}

func loadGPT(t *testing.T, extra ...string) (*GPTConfig, error) {
	t.Helper()
	ovs := append(slices.Clone(gptData), extra...)
	cfg, _, err := LoadGPT("testdata/gpt.yaml", hconf.WithOverrides(ovs...))
	return cfg, err
}

func TestLoadSpeaker(t *testing.T) {
	cfg, err := loadSpeaker(t)
	if err != nil {
		t.Fatal(err)
	}
	m := cfg.Model
	got := []any{
		m.SampleRate,
		m.TrainDS.ManifestFilepath,
		m.TrainDS.SampleRate,
		m.ValidationDS.BatchSize,
		m.ValidationDS.NumWorkers,
		m.Encoder.FeatIn,
		m.Decoder.FeatIn,
		m.Preprocessor.NFFT,
		m.Optim.Sched.Name,
		cfg.Trainer.Precision,
		cfg.ExpManager.Name,
		cfg.ExpManager.CheckpointCallbackParams.SaveTopK,
	}
	want := []any{
		16000,
		"/data/vox/train.json",
		16000,
		64,
		8,
		80,
		3072,
		512,
		"CosineAnnealing",
		Precision("32"),
		"ecapa_tdnn",
		3,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	speed := m.TrainDS.Augmentor["speed"]
	if speed == nil {
		t.Fatal("no speed augmentation")
	}
	if sr := ir.Get(speed, "sr"); sr == nil || !sr.IsInt() || *sr.Int64 != 16000 {
		t.Errorf("speed.sr: got %v", sr)
	}
	if m.TrainDS.Labels != nil {
		t.Errorf("labels: got %v", m.TrainDS.Labels)
	}
}

func TestLoadSpeakerMissing(t *testing.T) {
	_, _, err := LoadSpeaker("testdata/speaker.yaml")
	if !errors.Is(err, hconf.ErrMissingRequired) {
		t.Fatalf("got %v, want ErrMissingRequired", err)
	}
}

func TestLoadSpeakerUnknownKey(t *testing.T) {
	_, err := loadSpeaker(t, "+model.decoder.dropout=0.1")
	var uerr *gomap.UnmarshalError
	if !errors.As(err, &uerr) {
		t.Fatalf("got %v, want an UnmarshalError", err)
	}
	if uerr.Path != "model.decoder.dropout" {
		t.Errorf("path: got %q", uerr.Path)
	}
}

func TestSpeakerValidate(t *testing.T) {
	tests := []struct {
		name     string
		override string
		want     string
	}{
		{"FiltersFollow", "model.encoder.filters=[512, 512, 512, 512, 1536]", ""},
		{"FeaturesFollow", "model.preprocessor.features=64", ""},
		{"Stride", "model.preprocessor.window_stride=0.05", "model.preprocessor.window_stride"},
		{"Dilations", "model.encoder.dilations=[1, 2, 3]", "model.encoder.dilations"},
		{"PoolMode", "model.decoder.pool_mode=max", "model.decoder.pool_mode"},
		{"Optimizer", "model.optim.name=rmsprop", "model.optim.name"},
		{"Normalize", "model.preprocessor.normalize=batch", "model.preprocessor.normalize"},
		{"FFT", "model.preprocessor.n_fft=500", "model.preprocessor.n_fft"},
		{"MinLR", "model.optim.sched.min_lr=1.0", "model.optim.sched.min_lr"},
		{"SampleRateSchema", "sample_rate=4000", "sample_rate"},
		{"FilterSchema", "model.encoder.filters[2]=0", "model.encoder.filters[2]"},
		{"Precision", "trainer.precision=fp8", "trainer.precision"},
		{"Mode", "exp_manager.checkpoint_callback_params.mode=avg", "exp_manager.checkpoint_callback_params.mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadSpeaker(t, tt.override)
			checkViolation(t, err, tt.want)
		})
	}
}

func TestLoadGPT(t *testing.T) {
	cfg, err := loadGPT(t)
	if err != nil {
		t.Fatal(err)
	}
	got := []any{
		cfg.Model.FFNHiddenSize,
		cfg.Model.KVChannels,
		cfg.Model.MaxPositionEmbeddings,
		cfg.Model.WindowSize,
		cfg.Data.DataPath,
		cfg.Data.SeqLength,
		cfg.Parallelism.VirtualPipelineModelParallelSize == nil,
		cfg.Trainer.GradientClipVal,
		cfg.ModelParallelSize(),
		cfg.DataParallelSize(),
		cfg.GradientAccumulation(),
		cfg.HeadDim(),
		cfg.Trainer.Precision.Bits(),
		cfg.Trainer.Precision.Mixed(),
	}
	want := []any{
		24576,
		128,
		16384,
		[]int{4096, 0},
		[]string{"/data/stack/python", "/data/stack/go"},
		16384,
		true,
		1.0,
		8,
		64,
		16,
		128,
		16,
		true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if math.Abs(cfg.Optim.MinLR-3e-5) > 1e-12 {
		t.Errorf("min_lr: got %v", cfg.Optim.MinLR)
	}
}

func TestGPTValidate(t *testing.T) {
	tests := []struct {
		name     string
		override string
		want     string
	}{
		{"SeqFollows", "model.seq_length=8192", ""},
		{"Nodes", "trainer.num_nodes=32", ""},
		{"Heads", "model.num_attention_heads=50", "model.hidden_size"},
		{"Groups", "model.num_query_groups=5", "model.num_attention_heads"},
		{"Positions", "model.max_position_embeddings=4096", "model.seq_length"},
		{"Optimizer", "optim.optimizer=lion", "optim.optimizer"},
		{"Sched", "optim.sched.name=step", "optim.sched.name"},
		{"Batch", "trainer.num_nodes=3", "data.global_batch_size"},
		{"Pipeline", "parallelism.pipeline_model_parallel_size=3", "model.num_layers"},
		{"World", "parallelism.pipeline_model_parallel_size=3", "trainer.devices"},
		{"Virtual", "parallelism.virtual_pipeline_model_parallel_size=3", "model.num_layers"},
		{"SequenceParallel", "parallelism.tensor_model_parallel_size=1", "parallelism.sequence_parallel"},
		{"Split", "data.split=1,2", "data.split"},
		{"Norm", "model.normalization=BatchNorm", "model.normalization"},
		{"Window", "model.window_size=[4096]", "model.window_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadGPT(t, tt.override)
			checkViolation(t, err, tt.want)
		})
	}
}

func checkViolation(t *testing.T, err error, want string) {
	t.Helper()
	if want == "" {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return
	}
	if err == nil {
		t.Fatalf("no error, want a violation at %s", want)
	}
	vs := Violations(err)
	var paths []string
	for _, v := range vs {
		paths = append(paths, v.Path)
	}
	if !slices.Contains(paths, want) {
		t.Errorf("violations at %v, want %s (err %v)", paths, want, err)
	}
}

func TestSchemasRegistered(t *testing.T) {
	for _, name := range []string{SpeakerSchema, GPTSchema, DeepSeekSchema} {
		s := schema.Lookup(name)
		if s == nil {
			t.Errorf("schema %q not registered", name)
			continue
		}
		if len(s.Rules) == 0 {
			t.Errorf("schema %q has no rules", name)
		}
	}
}

func TestPrecision(t *testing.T) {
	tests := []struct {
		in    *ir.Node
		want  Precision
		bits  int
		mixed bool
		err   bool
	}{
		{in: ir.FromInt(32), want: "32", bits: 32},
		{in: ir.FromInt(16), want: "16", bits: 16},
		{in: ir.FromString("bf16-mixed"), want: "bf16-mixed", bits: 16, mixed: true},
		{in: ir.FromString("64-true"), want: "64-true", bits: 64},
		{in: ir.FromFloat(16.5), err: true},
		{in: ir.FromBool(true), err: true},
	}
	for _, tt := range tests {
		var p Precision
		err := p.FromIR(tt.in)
		if tt.err {
			if !errors.Is(err, ir.ErrTypeMismatch) {
				t.Errorf("%v: got %v, want ErrTypeMismatch", tt.in.Type, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", tt.want, err)
			continue
		}
		if p != tt.want || p.Bits() != tt.bits || p.Mixed() != tt.mixed || !p.Valid() {
			t.Errorf("got %q bits %d mixed %v", p, p.Bits(), p.Mixed())
		}
		n, err := p.ToIR()
		if err != nil {
			t.Fatal(err)
		}
		if n.Type != tt.in.Type {
			t.Errorf("%q: ToIR gave %s, want %s", p, n.Type, tt.in.Type)
		}
	}
}

func loadDeepSeek(t *testing.T, preset string, extra ...string) (*DeepSeekConfig, error) {
	t.Helper()
	ovs := append(slices.Clone(gptData), extra...)
	cfg, _, err := LoadDeepSeek(preset, hconf.WithOverrides(ovs...))
	return cfg, err
}

func TestPresets(t *testing.T) {
	want := []string{"deepseek", "deepseek_v2", "deepseek_v3"}
	if diff := cmp.Diff(want, Presets()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if _, err := Preset("deepseek_v4"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("got %v, want ErrUnknownPreset", err)
	}
	if _, _, err := LoadDeepSeek("llama"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("got %v, want ErrUnknownPreset", err)
	}
}

func TestLoadDeepSeek(t *testing.T) {
	tests := []struct {
		preset string
		extra  []string
		want   []any
	}{
		{"deepseek_v2", nil, []any{
			"deepseek_v2", 60, 5120, 160, 1536, 3072, 59, 6, 1, 16.0, "softmax", false, 3200, 192, "deepseek-ai/DeepSeek-V2",
		}},
		{"deepseek_v3", nil, []any{
			"deepseek_v3", 61, 7168, 256, 2048, 2048, 58, 8, 1, 2.5, "sigmoid", true, 1280, 192, "deepseek-ai/DeepSeek-V3",
		}},
		{"deepseek_v3", []string{"parallelism.expert_model_parallel_size=8"}, []any{
			"deepseek_v3", 61, 7168, 256, 2048, 2048, 58, 8, 4, 2.5, "sigmoid", true, 1280, 192, "deepseek-ai/DeepSeek-V3",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			cfg, err := loadDeepSeek(t, tt.preset, tt.extra...)
			if err != nil {
				t.Fatal(err)
			}
			m := &cfg.Model
			got := []any{
				cfg.Name,
				m.NumLayers,
				m.HiddenSize,
				m.NumExperts,
				m.ExpertFFNHiddenSize,
				m.SharedExpertFFNSize,
				cfg.MoELayers(),
				m.RouterTopK,
				*m.RouterTopKLimitedDevices,
				*m.RouterTopKScalingFactor,
				m.RouterScoreFunction,
				m.RouterEnableExpertBias,
				m.MakeVocabSizeDivisibleBy,
				cfg.QKDim(),
				cfg.Data.Tokenizer,
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
			layers := m.LayerFreq.Layers(m.NumLayers)
			if layers[0] || !layers[len(layers)-1] {
				t.Errorf("first layer must be dense and the last hold experts: %v", layers)
			}
			if m.QLoraRank == nil || *m.QLoraRank != 1536 {
				t.Errorf("q_lora_rank: got %v", m.QLoraRank)
			}
		})
	}
}

func TestLoadDeepSeekBase(t *testing.T) {
	_, err := loadDeepSeek(t, "deepseek")
	if !errors.Is(err, hconf.ErrMissingRequired) {
		t.Fatalf("got %v, want ErrMissingRequired", err)
	}
	cfg, err := loadDeepSeek(t, "deepseek",
		"model.num_layers=4",
		"model.hidden_size=1024",
		"model.ffn_hidden_size=4096",
		"model.num_moe_experts=8",
		"model.moe_ffn_hidden_size=512",
		"model.moe_shared_expert_intermediate_size=512",
		"model.moe_router_topk=2",
		"model.moe_layer_freq=2",
		"data.tokenizer=gpt2",
	)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]bool{true, false, true, false}, cfg.Model.LayerFreq.Layers(4)); diff != "" {
		t.Errorf("layers (-want +got):\n%s", diff)
	}
	if cfg.Model.RouterTopKLimitedDevices != nil || cfg.Model.RouterTopKScalingFactor != nil {
		t.Errorf("unset router limits: %v %v", cfg.Model.RouterTopKLimitedDevices, cfg.Model.RouterTopKScalingFactor)
	}
}

func TestDeepSeekValidate(t *testing.T) {
	tests := []struct {
		name     string
		preset   string
		override string
		want     string
	}{
		{"Experts", "deepseek_v2", "parallelism.expert_model_parallel_size=8", ""},
		{"TopK", "deepseek_v2", "model.moe_router_topk=200", "model.moe_router_topk"},
		{"ExpertBias", "deepseek_v2", "++model.moe_router_enable_expert_bias=true", "model.moe_router_enable_expert_bias"},
		{"Dispatcher", "deepseek_v3", "model.moe_token_dispatcher_type=p2p", "model.moe_token_dispatcher_type"},
		{"LoadBalancing", "deepseek_v3", "model.moe_router_load_balancing_type=random", "model.moe_router_load_balancing_type"},
		{"AuxLoss", "deepseek_v3", "model.moe_aux_loss_coeff=-0.1", "model.moe_aux_loss_coeff"},
		{"PatternLength", "deepseek_v3", "model.moe_layer_freq=[0, 1, 1]", "model.moe_layer_freq"},
		{"PatternEntries", "deepseek_v2", "model.moe_layer_freq=${eval:'map(1..60, 2)'}", "model.moe_layer_freq"},
		{"DenseOnly", "deepseek_v2", "model.moe_layer_freq=${eval:'map(1..60, 0)'}", "model.moe_layer_freq"},
		{"ExpertSplit", "deepseek_v2", "parallelism.expert_model_parallel_size=7", "model.num_moe_experts"},
		{"ExpertWorld", "deepseek_v3", "parallelism.expert_model_parallel_size=16", "parallelism.expert_model_parallel_size"},
		{"Rope", "deepseek_v3", "model.position_embedding_type=learned_absolute", "model.position_embedding_type"},
		{"RotaryScaling", "deepseek_v3", "model.rotary_scaling_factor=0.5", "model.rotary_scaling_factor"},
		{"LoraRank", "deepseek_v3", "model.kv_lora_rank=0", "model.kv_lora_rank"},
		{"HeadDim", "deepseek_v2", "model.v_head_dim=0", "model.v_head_dim"},
		{"Dense", "deepseek_v3", "model.num_attention_heads=100", "model.hidden_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadDeepSeek(t, tt.preset, tt.override)
			checkViolation(t, err, tt.want)
		})
	}
}

func TestLayerFreq(t *testing.T) {
	tests := []struct {
		in     *ir.Node
		layers []bool
	}{
		{ir.FromInt(1), []bool{true, true, true}},
		{ir.FromInt(3), []bool{true, false, false}},
		{ir.FromSlice([]*ir.Node{ir.FromInt(0), ir.FromInt(1), ir.FromInt(1)}), []bool{false, true, true}},
	}
	for _, tt := range tests {
		var f LayerFreq
		if err := f.FromIR(tt.in); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(tt.layers, f.Layers(3)); diff != "" {
			t.Errorf("%v (-want +got):\n%s", tt.in.Type, diff)
		}
		n, err := f.ToIR()
		if err != nil {
			t.Fatal(err)
		}
		if !ir.Equal(n, tt.in) {
			t.Errorf("ToIR gave %v", n)
		}
	}
	var f LayerFreq
	for _, bad := range []*ir.Node{ir.FromString("1"), ir.FromFloat(0.5), ir.FromSlice([]*ir.Node{ir.FromBool(true)})} {
		if err := f.FromIR(bad); !errors.Is(err, ir.ErrTypeMismatch) {
			t.Errorf("%v: got %v, want ErrTypeMismatch", bad.Type, err)
		}
	}
}
