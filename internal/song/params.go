package song

import (
	"errors"
	"fmt"
	"strings"
)

type Genre string

const (
	GenrePop         Genre = "Pop"
	GenreRock        Genre = "Rock"
	GenreHipHop      Genre = "Hip Hop"
	GenreElectronic  Genre = "Electronic"
	GenreJazz        Genre = "Jazz"
	GenreCountry     Genre = "Country"
	GenreRnB         Genre = "R&B"
	GenreMetal       Genre = "Metal"
	GenreClassical   Genre = "Classical"
	GenreBlues       Genre = "Blues"
	GenreFolk        Genre = "Folk"
	GenreReggae      Genre = "Reggae"
	GenrePunk        Genre = "Punk"
	GenreFunk        Genre = "Funk"
	GenreSoul        Genre = "Soul"
	GenreDisco       Genre = "Disco"
	GenreTechno      Genre = "Techno"
	GenreHouse       Genre = "House"
	GenreAmbient     Genre = "Ambient"
	GenreIndie       Genre = "Indie"
	GenreAlternative Genre = "Alternative"
	GenreGospel      Genre = "Gospel"
	GenreLatin       Genre = "Latin"
	GenreKPop        Genre = "K-Pop"
	GenreJPop        Genre = "J-Pop"
	GenreDangdut     Genre = "Dangdut"
	GenreBallad      Genre = "Ballad"
	GenreSka         Genre = "Ska"
	GenreDubstep     Genre = "Dubstep"
	GenreTrance      Genre = "Trance"
	GenreSynthPop    Genre = "Synth-pop"
	GenreLoFi        Genre = "Lo-fi"
	GenreWorldMusic  Genre = "World Music"
	GenreBluegrass   Genre = "Bluegrass"
)

type Emotion string

const (
	EmotionHappy       Emotion = "Happy"
	EmotionSad         Emotion = "Sad"
	EmotionAngry       Emotion = "Angry"
	EmotionHopeful     Emotion = "Hopeful"
	EmotionRomantic    Emotion = "Romantic"
	EmotionMelancholic Emotion = "Melancholic"
)

type Structure string

const (
	StructureVerseChorus            Structure = "Verse-Chorus-Verse-Chorus"
	StructureVerseChorusBridge      Structure = "Verse-Chorus-Verse-Chorus-Bridge-Chorus"
	StructureVersePreChorusChorus   Structure = "Verse-Pre-Chorus-Chorus"
	StructureVerseChorusBridgeOutro Structure = "Verse-Chorus-Bridge-Chorus-Outro"
	StructureAABA                   Structure = "AABA"
)

// SoundEngine names the text-to-music service the sound prompt is written for.
type SoundEngine string

const (
	SoundEngineSuno      SoundEngine = "Suno AI"
	SoundEngineRiffusion SoundEngine = "Riffusion"
)

// ImageStyle is the visual style the cover-art prompt must use.
type ImageStyle string

const (
	ImageStylePhotorealistic ImageStyle = "Photorealistic"
	ImageStyleAnime          ImageStyle = "Anime"
	ImageStyleAbstract       ImageStyle = "Abstract"
	ImageStyleVintage        ImageStyle = "Vintage Photo"
	ImageStyleCyberpunk      ImageStyle = "Cyberpunk"
	ImageStyleFantasyArt     ImageStyle = "Fantasy Art"
)

type Language string

const (
	LanguageIndonesian Language = "Indonesian"
	LanguageEnglish    Language = "English"
	LanguageSpanish    Language = "Spanish"
	LanguageFrench     Language = "French"
	LanguageJapanese   Language = "Japanese"
)

var (
	genres = []Genre{
		GenrePop, GenreRock, GenreHipHop, GenreElectronic, GenreJazz, GenreCountry,
		GenreRnB, GenreMetal, GenreClassical, GenreBlues, GenreFolk, GenreReggae,
		GenrePunk, GenreFunk, GenreSoul, GenreDisco, GenreTechno, GenreHouse,
		GenreAmbient, GenreIndie, GenreAlternative, GenreGospel, GenreLatin,
		GenreKPop, GenreJPop, GenreDangdut, GenreBallad, GenreSka, GenreDubstep,
		GenreTrance, GenreSynthPop, GenreLoFi, GenreWorldMusic, GenreBluegrass,
	}
	emotions = []Emotion{
		EmotionHappy, EmotionSad, EmotionAngry, EmotionHopeful, EmotionRomantic, EmotionMelancholic,
	}
	structures = []Structure{
		StructureVerseChorus, StructureVerseChorusBridge, StructureVersePreChorusChorus,
		StructureVerseChorusBridgeOutro, StructureAABA,
	}
	soundEngines = []SoundEngine{SoundEngineSuno, SoundEngineRiffusion}
	imageStyles  = []ImageStyle{
		ImageStylePhotorealistic, ImageStyleAnime, ImageStyleAbstract,
		ImageStyleVintage, ImageStyleCyberpunk, ImageStyleFantasyArt,
	}
	languages = []Language{
		LanguageIndonesian, LanguageEnglish, LanguageSpanish, LanguageFrench, LanguageJapanese,
	}
)

func AllGenres() []Genre             { return append([]Genre(nil), genres...) }
func AllEmotions() []Emotion         { return append([]Emotion(nil), emotions...) }
func AllStructures() []Structure     { return append([]Structure(nil), structures...) }
func AllSoundEngines() []SoundEngine { return append([]SoundEngine(nil), soundEngines...) }
func AllImageStyles() []ImageStyle   { return append([]ImageStyle(nil), imageStyles...) }
func AllLanguages() []Language       { return append([]Language(nil), languages...) }

func (g Genre) Valid() bool       { return contains(genres, g) }
func (e Emotion) Valid() bool     { return contains(emotions, e) }
func (s Structure) Valid() bool   { return contains(structures, s) }
func (s SoundEngine) Valid() bool { return contains(soundEngines, s) }
func (s ImageStyle) Valid() bool  { return contains(imageStyles, s) }
func (l Language) Valid() bool    { return contains(languages, l) }

func ParseGenre(s string) (Genre, error)             { return parse(genres, "genre", s) }
func ParseEmotion(s string) (Emotion, error)         { return parse(emotions, "emotion", s) }
func ParseStructure(s string) (Structure, error)     { return parse(structures, "structure", s) }
func ParseSoundEngine(s string) (SoundEngine, error) { return parse(soundEngines, "sound engine", s) }
func ParseImageStyle(s string) (ImageStyle, error)   { return parse(imageStyles, "image style", s) }
func ParseLanguage(s string) (Language, error)       { return parse(languages, "language", s) }

// Parameters is everything the prompt builder needs for one song.
type Parameters struct {
	Topic       string
	Genre       Genre
	Emotion     Emotion
	Structure   Structure
	SoundEngine SoundEngine
	ImageStyle  ImageStyle
	Language    Language
}

var ErrEmptyTopic = errors.New("topic is required")

// DefaultParameters mirrors the initial form selection.
func DefaultParameters() Parameters {
	return Parameters{
		Genre:       GenrePop,
		Emotion:     EmotionHappy,
		Structure:   StructureVerseChorus,
		SoundEngine: SoundEngineSuno,
		ImageStyle:  ImageStylePhotorealistic,
		Language:    LanguageEnglish,
	}
}

func (p Parameters) Validate() error {
	if strings.TrimSpace(p.Topic) == "" {
		return ErrEmptyTopic
	}

	checks := []struct {
		field string
		value string
		valid bool
	}{
		{"genre", string(p.Genre), p.Genre.Valid()},
		{"emotion", string(p.Emotion), p.Emotion.Valid()},
		{"structure", string(p.Structure), p.Structure.Valid()},
		{"sound engine", string(p.SoundEngine), p.SoundEngine.Valid()},
		{"image style", string(p.ImageStyle), p.ImageStyle.Valid()},
		{"language", string(p.Language), p.Language.Valid()},
	}
	for _, c := range checks {
		if !c.valid {
			return fmt.Errorf("unknown %s %q", c.field, c.value)
		}
	}
	return nil
}

func contains[T ~string](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func parse[T ~string](values []T, field, s string) (T, error) {
	s = strings.TrimSpace(s)
	for _, v := range values {
		if strings.EqualFold(string(v), s) {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unknown %s %q", field, s)
}
