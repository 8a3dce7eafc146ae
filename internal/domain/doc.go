// Package domain models the supercell probability index (SPI) inputs and the
// pure arithmetic around them.
//
// # Input Parameters
//
// Nine convective parameters describe the pre-storm environment. They are
// typically read off an SPC mesoanalysis or a model sounding. Column order is
// part of the contract with the trained models: they have no notion of names
// at inference time.
//
//	MUCAPE              most unstable parcel CAPE (J/kg)
//	MUCIN               most unstable parcel CIN (J/kg, usually <= 0)
//	MULCL               most unstable parcel LCL height (m AGL)
//	LLCAPE              MU CAPE in the lowest 3 km above the LFC (J/kg)
//	sfc1shear           0-1 km bulk wind difference (kt)
//	EBWD                effective bulk wind difference (kt)
//	ESRH                effective storm-relative helicity (m²/s²)
//	el_sr_wind          storm-relative wind at the equilibrium level (kt)
//	eff_inflow_sr_wind  storm-relative wind in the effective inflow layer (kt)
//
// Each parameter also has a display label. Labels are the HTML form field
// names and are echoed back verbatim, including the historical spelling
// "Equlibrium".
//
// # Scoring
//
// The ensemble produces three class-1 probabilities. Each is rounded to three
// decimals and expressed as a percentage before the unweighted mean is taken:
//
//	score = (100·round(p_gbt, 3) + 100·round(p_svm, 3) + 100·round(p_ann, 3)) / 3
//
// Rounding before averaging quantizes each model's contribution on its own.
// It differs from averaging first near rounding boundaries. See [Aggregate].
package domain
