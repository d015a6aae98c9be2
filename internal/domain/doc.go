// Package domain models per-school ENEM (Exame Nacional do Ensino Médio)
// score data for Minas Gerais and the pure logic applied to it.
//
// # Data Source
//
// Scores arrive as a spreadsheet export ("Dados_ENEM_2024_MG - Dados_Tratados.csv")
// with one row per school. Header names are in Portuguese, in any case and
// with stray whitespace; the loader maps them onto canonical codes:
//
//	ESCOLA                 -> ESCOLA   school name
//	CIÊNCIAS HUMANAS       -> CH       humanities
//	LINGUAGENS E CÓDIGOS   -> LC       languages
//	CIÊNCIAS DA NATUREZA   -> CN       natural sciences
//	MATEMÁTICA             -> MT       mathematics
//	REDAÇÃO                -> REDACAO  essay
//	MÉDIA GERAL            -> MEDIA    overall average
//	LATITUDE / LONGITUDE   -> LAT / LON
//	REGIONAL               -> REGIONAL SRE (regional education office) label
//
// Numeric cells use the Brazilian comma decimal separator: "650,5" is 650.5.
// Scores are nominally on the 0–1000 ENEM scale but are not range-checked.
//
// # Colour scale
//
// [ScoreColor] maps a score onto a two-segment ramp with a hard seam at 500:
//
//	  0 .. 500   #8B0000 (dark red)   -> #FFA07A (light salmon)
//	500 .. 1000  #ADD8E6 (light blue) -> #00008B (dark blue)
//
// Missing (NaN) and negative scores are drawn in neutral gray (#999999).
package domain
