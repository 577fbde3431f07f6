// Package hparams holds typed training configurations decoded from
// resolved hconf documents.
//
// Two families are provided: [SpeakerConfig] for a NEST encoder with an
// ECAPA-TDNN speaker head, and [GPTConfig] for Megatron style decoder
// pretraining such as StarCoder2. Each has a Validate method enforcing
// the closed enumerations and the cross field arithmetic (divisibility,
// matching list lengths) a trainer would otherwise reject at startup.
//
// Loading goes through [hconf.LoadFile], so interpolations, resolvers and
// overrides behave exactly as for any other document:
//
//	cfg, doc, err := hparams.LoadGPT("gpt.yaml",
//		hconf.WithOverrides("data.data_path=[/data/code]", "trainer.num_nodes=32"))
//
// [DeepSeekConfig] extends the GPT layout with mixture of experts and
// multi-latent attention settings. Its models ship as embedded presets:
// "deepseek" holds the settings V2 and V3 share, and "deepseek_v2" and
// "deepseek_v3" are override files applied on top of it.
//
//	cfg, doc, err := hparams.LoadDeepSeek("deepseek_v3",
//		hconf.WithOverrides("data.data_path=[/data/web]", "parallelism.expert_model_parallel_size=8"))
//
// A schema for each family is embedded and registered with package
// schema under the names "speaker", "gpt" and "deepseek".
package hparams
