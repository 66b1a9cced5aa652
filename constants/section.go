package constants

// SectionKey names a résumé section the segmenter can locate.
type SectionKey string

const (
	SectionContact    SectionKey = "contact"
	SectionLanguages  SectionKey = "languages"
	SectionProjects   SectionKey = "projects"
	SectionExperience SectionKey = "experience"
	SectionEducation  SectionKey = "education"
	SectionSkills     SectionKey = "skills"
	SectionProfile    SectionKey = "profile"
)

// SectionKeys lists every key in rule-table order.
var SectionKeys = []SectionKey{
	SectionContact,
	SectionLanguages,
	SectionProjects,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionProfile,
}

// Extraction methods reported on results.
const (
	MethodText         = "text"
	MethodDOCX         = "docx"
	MethodPDFText      = "pdf-text"
	MethodPDFOCR       = "pdf-ocr"
	MethodImageOCR     = "image-ocr"
	MethodEmpty        = "empty"
	ExtractedWithLabel = "cv-extractor (sections)"
)
