package bop

// Rough, architecture-independent byte estimates for accounting against
// Limits.MaxMemory. Mirrors the shape of a real Go allocation without
// trying to match runtime.MemStats exactly: the quota is a guardrail,
// not a profiler.
const (
	estimatedValueBytes        = 24
	estimatedStringHeaderBytes = 16
	estimatedSliceBaseBytes    = 24
	estimatedDictBaseBytes     = 48
	estimatedDictEntryBytes    = 32
	estimatedEnvBytes          = 16
)

// estimateMemory walks the live environment chain and any extra
// in-flight values, summing their estimated footprint. Bop's value
// model never aliases (see Copy) and containers cannot cycle back to
// themselves, so unlike vibes/memory.go's estimator this one needs no
// seen-set bookkeeping: every reachable value is counted exactly once
// because it is, structurally, reachable exactly once.
func estimateMemory(e *env, extras ...Value) int {
	total := estimateEnvChain(e)
	for _, v := range extras {
		total += estimateValue(v)
	}
	return total
}

func estimateEnvChain(e *env) int {
	total := 0
	for cur := e; cur != nil; cur = cur.parent {
		total += estimatedEnvBytes + estimatedDictBaseBytes + len(cur.values)*estimatedDictEntryBytes
		for name, val := range cur.values {
			total += estimatedStringHeaderBytes + len(name)
			total += estimateValue(val)
		}
	}
	return total
}

func estimateValue(v Value) int {
	size := estimatedValueBytes
	switch v.Kind() {
	case KindString:
		size += estimatedStringHeaderBytes + len(v.Str())
	case KindArray:
		arr := v.Array()
		size += estimatedSliceBaseBytes
		for _, el := range arr {
			size += estimateValue(el)
		}
	case KindDict:
		d := v.Dict()
		size += estimatedDictBaseBytes + d.Len()*estimatedDictEntryBytes
		for _, k := range d.Keys() {
			val, _ := d.Get(k)
			size += estimatedStringHeaderBytes + len(k)
			size += estimateValue(val)
		}
	}
	return size
}
