package flags

import "github.com/depforge/depforge/internal/deps"

// Effective flag composition: configuration-scoped base flags first,
// per-dependency additions last. Conflicting single-valued options are
// resolved by the compiler's own "last listed wins" parsing; the
// composition never rewrites earlier flags.

func (s *Set) EffectiveCompilerFlags(d *deps.Dependency, h deps.Host) []string {
	out := cloneFlags(s.Compiler)
	if p, ok := d.Recipe.(deps.CompilerFlagsProvider); ok {
		out = append(out, p.AdditionalCompilerFlags(h)...)
	}
	return out
}

func (s *Set) EffectiveCFlags(d *deps.Dependency, h deps.Host) []string {
	out := cloneFlags(s.C)
	out = append(out, s.EffectiveCompilerFlags(d, h)...)
	if p, ok := d.Recipe.(deps.CFlagsProvider); ok {
		out = append(out, p.AdditionalCFlags(h)...)
	}
	return out
}

func (s *Set) EffectiveCXXFlags(d *deps.Dependency, h deps.Host) []string {
	out := cloneFlags(s.CXX)
	out = append(out, s.EffectiveCompilerFlags(d, h)...)
	if p, ok := d.Recipe.(deps.CXXFlagsProvider); ok {
		out = append(out, p.AdditionalCXXFlags(h)...)
	}
	return out
}

func (s *Set) EffectiveLDFlags(d *deps.Dependency, h deps.Host) []string {
	out := cloneFlags(s.LD)
	if p, ok := d.Recipe.(deps.LDFlagsProvider); ok {
		out = append(out, p.AdditionalLDFlags(h)...)
	}
	return out
}

func (s *Set) EffectiveExecutableLDFlags(d *deps.Dependency, h deps.Host) []string {
	out := cloneFlags(s.LD)
	out = append(out, s.ExecutableLD...)
	if p, ok := d.Recipe.(deps.LDFlagsProvider); ok {
		out = append(out, p.AdditionalLDFlags(h)...)
	}
	return out
}

func (s *Set) EffectivePreprocessorFlags(d *deps.Dependency) []string {
	return cloneFlags(s.Preprocessor)
}

func cloneFlags(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
