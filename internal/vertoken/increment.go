package vertoken

// Increment applies the build/revision increment policy to v.
//
//   - incrementBuild bumps the build component and resets revision to 0:
//     a revision count is meaningless once build has advanced.
//   - incrementRevision bumps the revision component, but only when build
//     is not also advancing.
//   - neither flag leaves v unchanged.
func Increment(v Version, incrementBuild, incrementRevision bool) Version {
	if incrementBuild {
		v.Build++
		v.Revision = 0
		return v
	}
	if incrementRevision {
		v.Revision++
	}
	return v
}
