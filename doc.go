// Package dynamoid is the composition root for the attribute subsystem of
// an object-document mapper targeting key-value/document stores.
//
// It connects the schema registry (which fields a model declares, their
// type descriptors, and the generated accessors) with the instance
// attribute store (per-document casted values plus the pre-cast originals)
// through the type coercion engine.
//
// Usage:
//
//	model := dynamoid.NewModel("User",
//		dynamoid.WithTimestamps(true),
//		dynamoid.WithLogger(logger),
//	)
//	model.Registry().DeclareField("age", dynamoid.BuiltinType(dynamoid.KindInteger), nil)
//
//	doc := model.New()
//	_ = doc.WriteAttribute("age", "42") // stored pre-cast as "42", casted to int64(42)
package dynamoid
