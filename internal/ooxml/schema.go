package ooxml

import "github.com/beevik/etree"

// Child orders from the WordprocessingML schema. Word rejects property
// elements that appear out of sequence, so new children are inserted at
// their schema position instead of being appended.
var (
	PPrOrder = []string{
		"pStyle", "keepNext", "keepLines", "pageBreakBefore", "framePr",
		"widowControl", "numPr", "suppressLineNumbers", "pBdr", "shd", "tabs",
		"suppressAutoHyphens", "kinsoku", "wordWrap", "overflowPunct",
		"topLinePunct", "autoSpaceDE", "autoSpaceDN", "bidi", "adjustRightInd",
		"snapToGrid", "spacing", "ind", "contextualSpacing", "mirrorIndents",
		"suppressOverlap", "jc", "textDirection", "textAlignment",
		"textboxTightWrap", "outlineLvl", "divId", "cnfStyle", "rPr", "sectPr",
		"pPrChange",
	}

	RPrOrder = []string{
		"rStyle", "rFonts", "b", "bCs", "i", "iCs", "caps", "smallCaps",
		"strike", "dstrike", "outline", "shadow", "emboss", "imprint",
		"noProof", "snapToGrid", "vanish", "webHidden", "color", "spacing",
		"w", "kern", "position", "sz", "szCs", "highlight", "u", "effect",
		"bdr", "shd", "fitText", "vertAlign", "rtl", "cs", "em", "lang",
		"eastAsianLayout", "specVanish", "oMath",
	}

	TblPrOrder = []string{
		"tblStyle", "tblpPr", "tblOverlap", "bidiVisual", "tblStyleRowBandSize",
		"tblStyleColBandSize", "tblW", "jc", "tblCellSpacing", "tblInd",
		"tblBorders", "shd", "tblLayout", "tblCellMar", "tblLook",
		"tblCaption", "tblDescription",
	}

	TblOrder = []string{"tblPr", "tblGrid", "tr"}

	TcPrOrder = []string{
		"cnfStyle", "tcW", "gridSpan", "hMerge", "vMerge", "tcBorders", "shd",
		"noWrap", "tcMar", "textDirection", "tcFitText", "vAlign", "hideMark",
	}

	BordersOrder = []string{
		"top", "left", "start", "bottom", "right", "end", "insideH", "insideV",
	}

	SectPrOrder = []string{
		"headerReference", "footerReference", "footnotePr", "endnotePr", "type",
		"pgSz", "pgMar", "paperSrc", "pgBorders", "lnNumType", "pgNumType",
		"cols", "formProt", "vAlign", "noEndnote", "titlePg", "textDirection",
		"bidi", "rtlGutter", "docGrid", "printerSettings", "sectPrChange",
	}

	StyleOrder = []string{
		"name", "aliases", "basedOn", "next", "link", "autoRedefine", "hidden",
		"uiPriority", "semiHidden", "unhideWhenUsed", "qFormat", "locked",
		"personal", "personalCompose", "personalReply", "rsid", "pPr", "rPr",
		"tblPr", "trPr", "tcPr", "tblStylePr",
	}

	SettingsOrder = []string{
		"writeProtection", "view", "zoom", "removePersonalInformation",
		"removeDateAndTime", "doNotDisplayPageBoundaries",
		"displayBackgroundShape", "printPostScriptOverText",
		"printFractionalCharacterWidth", "printFormsData", "embedTrueTypeFonts",
		"embedSystemFonts", "saveSubsetFonts", "saveFormsData", "mirrorMargins",
		"alignBordersAndEdges", "bordersDoNotSurroundHeader",
		"bordersDoNotSurroundFooter", "gutterAtTop", "hideSpellingErrors",
		"hideGrammaticalErrors", "activeWritingStyle", "proofState",
		"formsDesign", "attachedTemplate", "linkStyles",
		"stylePaneFormatFilter", "stylePaneSortMethod", "documentType",
		"mailMerge", "revisionView", "trackRevisions", "doNotTrackMoves",
		"doNotTrackFormatting", "documentProtection", "autoFormatOverride",
		"styleLockTheme", "styleLockQFSet", "defaultTabStop", "autoHyphenation",
		"consecutiveHyphenLimit", "hyphenationZone", "doNotHyphenateCaps",
		"showEnvelope", "summaryLength", "clickAndTypeStyle",
		"defaultTableStyle", "evenAndOddHeaders", "bookFoldRevPrinting",
		"bookFoldPrinting", "bookFoldPrintingSheets",
		"drawingGridHorizontalSpacing", "drawingGridVerticalSpacing",
		"displayHorizontalDrawingGridEvery", "displayVerticalDrawingGridEvery",
		"doNotUseMarginsForDrawingGridOrigin", "drawingGridHorizontalOrigin",
		"drawingGridVerticalOrigin", "doNotShadeFormData",
		"noPunctuationKerning", "characterSpacingControl", "printTwoOnOne",
		"strictFirstAndLastChars", "noLineBreaksAfter", "noLineBreaksBefore",
		"savePreviewPicture", "doNotValidateAgainstSchema", "saveInvalidXml",
		"ignoreMixedContent", "alwaysShowPlaceholderText",
		"doNotDemarcateInvalidXml", "saveXmlDataOnly", "useXSLTWhenSaving",
		"saveThroughXslt", "showXMLTags", "alwaysMergeEmptyNamespace",
		"updateFields", "hdrShapeDefaults", "footnotePr", "endnotePr", "compat",
		"docVars", "rsids", "mathPr", "attachedSchema", "themeFontLang",
		"clrSchemeMapping", "doNotIncludeSubdocsInStats",
		"doNotAutoCompressPictures", "forceUpgrade", "captions",
		"readModeInkLockDown", "smartTagType", "schemaLibrary",
		"shapeDefaults", "doNotEmbedSmartTags", "decimalSymbol",
		"listSeparator",
	}
)

func rank(order []string, tag string) int {
	for i, t := range order {
		if t == tag {
			return i
		}
	}
	return -1
}

// InsertOrdered inserts el into parent before the first child that the
// schema places after it. Children unknown to order are skipped over.
func InsertOrdered(parent, el *etree.Element, order []string) {
	r := rank(order, el.Tag)
	if r < 0 {
		parent.AddChild(el)
		return
	}
	for i, tok := range parent.Child {
		c, ok := tok.(*etree.Element)
		if !ok {
			continue
		}
		if rank(order, c.Tag) > r {
			parent.InsertChildAt(i, el)
			return
		}
	}
	parent.AddChild(el)
}

// EnsureChild returns the first child named tag, creating it at its schema
// position when missing.
func EnsureChild(parent *etree.Element, tag string, order []string) *etree.Element {
	if el := parent.SelectElement(tag); el != nil {
		return el
	}
	el := etree.NewElement(tag)
	InsertOrdered(parent, el, order)
	return el
}

// ReplaceChild removes every child named tag and inserts a fresh, empty one.
func ReplaceChild(parent *etree.Element, tag string, order []string) *etree.Element {
	RemoveChildren(parent, tag)
	el := etree.NewElement(tag)
	InsertOrdered(parent, el, order)
	return el
}

// EnsureFirst returns the first child named tag, creating it as the first
// element child when missing. Used for pPr, rPr, tcPr and tblPr, which
// always lead their parent.
func EnsureFirst(parent *etree.Element, tag string) *etree.Element {
	if el := parent.SelectElement(tag); el != nil {
		return el
	}
	el := etree.NewElement(tag)
	parent.InsertChildAt(0, el)
	return el
}

// RemoveChildren drops all direct children named tag.
func RemoveChildren(parent *etree.Element, tag string) {
	for _, c := range parent.SelectElements(tag) {
		parent.RemoveChild(c)
	}
}

// SetAttrs sets key/value attribute pairs on el.
func SetAttrs(el *etree.Element, kv ...string) *etree.Element {
	for i := 0; i+1 < len(kv); i += 2 {
		el.CreateAttr(kv[i], kv[i+1])
	}
	return el
}
