// Package serialization stores generated arrays in the SafeTensors format, the
// header-plus-raw-bytes layout used by HuggingFace:
//
//	[8 bytes: header size N (uint64 LE)]
//	[N bytes: JSON header {"name": {"dtype", "shape", "data_offsets"}, "__metadata__": {...}}]
//	[tensor data: raw little-endian bytes, in header order]
//
// Every element type of the tensor package has a SafeTensors dtype code (I8, I16,
// I32, I64, U8, F16, BF16, F32, F64). Strided views are written in row-major order
// of their own shape.
//
// Example usage:
//
//	tensors := map[string]*tensor.RawTensor{"ramp": ramp, "eye": eye}
//	if err := serialization.WriteFile("out.safetensors", tensors, nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	loaded, metadata, err := serialization.ReadFile("out.safetensors")
package serialization
