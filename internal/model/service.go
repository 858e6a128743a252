package model

// ServiceType is one of the predefined catalog titles.
type ServiceType string

const (
	ServiceInjectionsBG        ServiceType = "Инжекции"
	ServiceCannulaBG           ServiceType = "Абокати и венозни вливания"
	ServiceBloodDrawBG         ServiceType = "Домашно посещение за вземане на кръв, секрети и даване на урина за лабораторни изследвания"
	ServiceCatheterBG          ServiceType = "Катетър"
	ServiceElectrocardiogramBG ServiceType = "ЕКГ"
	ServiceGeneralConditionBG  ServiceType = "Домашно посещение за проследяване на общото състояние"

	ServiceInjectionsEN        ServiceType = "INJECTIONS"
	ServiceCannulaEN           ServiceType = "ABOCATES AND INTRAVENOUS INFUSIONS"
	ServiceBloodDrawEN         ServiceType = "Home visit to collect blood, secretions and give urine for laboratory tests"
	ServiceCatheterEN          ServiceType = "Catheter"
	ServiceElectrocardiogramEN ServiceType = "EKG"
	ServiceGeneralConditionEN  ServiceType = "Home visit to follow up on general condition"
)

// Locale selects which title and description variant is shown.
type Locale string

const (
	LocaleBG Locale = "bg"
	LocaleEN Locale = "en"
)

// ParseLocale maps anything that is not "bg" to English.
func ParseLocale(s string) Locale {
	if s == string(LocaleBG) {
		return LocaleBG
	}
	return LocaleEN
}

// Service is a catalog entry. Title and Description are derived from the
// bilingual fields at read time and never stored.
type Service struct {
	ID            string      `json:"id" firestore:"-"`
	BGTitle       ServiceType `json:"bg_title" firestore:"bgTitle"`
	ENTitle       ServiceType `json:"en_title" firestore:"enTitle"`
	BGDescription string      `json:"bg_description" firestore:"bgDescription"`
	ENDescription string      `json:"en_description" firestore:"enDescription"`

	Title       ServiceType `json:"title,omitempty" firestore:"-"`
	Description string      `json:"description,omitempty" firestore:"-"`
	Images      []string    `json:"images,omitempty" firestore:"-"`
}

// Localized returns a copy with Title, Description and Images filled for locale.
func (s *Service) Localized(locale Locale) *Service {
	out := *s
	if locale == LocaleBG {
		out.Title, out.Description = s.BGTitle, s.BGDescription
	} else {
		out.Title, out.Description = s.ENTitle, s.ENDescription
	}
	out.Images, _ = ImagesFor(out.Title)
	return &out
}

// ServicePatch carries the fields of a partial catalog update.
type ServicePatch struct {
	BGTitle       *ServiceType `json:"bg_title" binding:"omitempty,service_type"`
	ENTitle       *ServiceType `json:"en_title" binding:"omitempty,service_type"`
	BGDescription *string      `json:"bg_description"`
	ENDescription *string      `json:"en_description"`
}

type CreateServiceRequest struct {
	BGTitle       ServiceType `json:"bg_title" binding:"required,service_type"`
	ENTitle       ServiceType `json:"en_title" binding:"required,service_type"`
	BGDescription string      `json:"bg_description" binding:"required"`
	ENDescription string      `json:"en_description" binding:"required"`
}

var (
	injectionsImages = []string{
		"/injections1.png",
		"/injections2.png",
		"/injections3.jpg",
		"/injections4.png",
		"/injections5.png",
		"/injections6.png",
	}
	bloodDrawImages = []string{
		"/blood_draw1.png",
		"/blood_draw2.png",
		"/blood_draw3.png",
	}
	cannulaImages = []string{
		"/cannula1.png",
		"/cannula2.png",
		"/cannula3.jpg",
		"/cannula4.png",
	}
	catheterImages = []string{
		"/catheter1.png",
		"/catheter2.png",
	}
	electrocardiogramImages = []string{
		"/electrocardiogram1.png",
		"/electrocardiogram2.png",
		"/electrocardiogram3.png",
		"/electrocardiogram4.png",
	}
	generalConditionImages = []string{
		"/general_condition1.png",
		"/general_condition2.png",
		"/general_condition3.png",
		"/general_condition4.png",
		"/general_condition5.png",
		"/general_condition6.png",
	}

	serviceImages = map[ServiceType][]string{
		ServiceInjectionsBG:        injectionsImages,
		ServiceInjectionsEN:        injectionsImages,
		ServiceBloodDrawBG:         bloodDrawImages,
		ServiceBloodDrawEN:         bloodDrawImages,
		ServiceCannulaBG:           cannulaImages,
		ServiceCannulaEN:           cannulaImages,
		ServiceCatheterBG:          catheterImages,
		ServiceCatheterEN:          catheterImages,
		ServiceElectrocardiogramBG: electrocardiogramImages,
		ServiceElectrocardiogramEN: electrocardiogramImages,
		ServiceGeneralConditionBG:  generalConditionImages,
		ServiceGeneralConditionEN:  generalConditionImages,
	}
)

// ImagesFor returns the illustration paths of a catalog title. The returned
// slice is a copy. Unknown titles report false.
func ImagesFor(t ServiceType) ([]string, bool) {
	images, ok := serviceImages[t]
	if !ok {
		return nil, false
	}
	return append([]string(nil), images...), true
}

// IsKnownServiceType reports whether t is one of the predefined titles.
func IsKnownServiceType(t ServiceType) bool {
	_, ok := serviceImages[t]
	return ok
}

// TitlesFor returns the localized titles of the services referenced by ids,
// in id order. Ids missing from services are skipped.
func TitlesFor(ids []string, services []*Service, locale Locale) []string {
	titles := make([]string, 0, len(ids))
	for _, id := range ids {
		for _, s := range services {
			if s.ID == id {
				titles = append(titles, string(s.Localized(locale).Title))
				break
			}
		}
	}
	return titles
}
