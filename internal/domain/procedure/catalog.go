// internal/domain/procedure/catalog.go
package procedure

// Catalog returns the built-in procedures in display order
func Catalog() []Procedure {
	return []Procedure{
		{
			ID:          "central-wing",
			Title:       "Central Wing Assembly",
			Description: "Complete assembly process for the central wing component of the UAV.",
			Category:    "Assembly",
			Duration:    "2 hours",
			Difficulty:  DifficultyIntermediate,
			Steps: []Step{
				{
					ID:            "1",
					Title:         "Prepare Work Area",
					Description:   "Clear the workspace and gather all necessary tools. Ensure proper lighting and ventilation.",
					ImageURL:      "https://images.pexels.com/photos/162553/keys-workshop-mechanic-tools-162553.jpeg",
					EstimatedTime: "10 minutes",
					Tools:         []string{"Work bench", "Lighting equipment"},
					SafetyNotes:   "Ensure proper ventilation and wear appropriate PPE",
				},
				{
					ID:            "2",
					Title:         "Wing Component Inspection",
					Description:   "Carefully inspect all wing components for any damage or wear before assembly.",
					ImageURL:      "https://images.pexels.com/photos/2519374/pexels-photo-2519374.jpeg",
					EstimatedTime: "15 minutes",
					Tools:         []string{"Magnifying glass", "Inspection light"},
					SafetyNotes:   "Document any findings thoroughly",
				},
				{
					ID:            "3",
					Title:         "Align Central Spar",
					Description:   "Position and align the central wing spar according to specifications.",
					ImageURL:      "https://images.pexels.com/photos/3846976/pexels-photo-3846976.jpeg",
					EstimatedTime: "20 minutes",
					Tools:         []string{"Level", "Alignment jig", "Measuring tape"},
				},
				{
					ID:            "4",
					Title:         "Attach Wing Panels",
					Description:   "Carefully attach wing panels to the central spar, ensuring proper alignment.",
					ImageURL:      "https://images.pexels.com/photos/4489734/pexels-photo-4489734.jpeg",
					EstimatedTime: "45 minutes",
					Tools:         []string{"Screwdriver set", "Torque wrench", "Panel clamps"},
				},
				{
					ID:            "5",
					Title:         "Final Inspection",
					Description:   "Perform final inspection of all connections and moving parts.",
					ImageURL:      "https://images.pexels.com/photos/4489794/pexels-photo-4489794.jpeg",
					EstimatedTime: "30 minutes",
					Tools:         []string{"Inspection checklist", "Testing equipment"},
					SafetyNotes:   "Verify all safety-critical components",
				},
			},
		},
		{
			ID:          "motor-replacement",
			Title:       "Motor Replacement",
			Description: "Step-by-step guide for replacing a faulty motor.",
			Category:    "Repair",
			Duration:    "1 hour",
			Difficulty:  DifficultyBeginner,
			Steps: []Step{
				{
					ID:            "1",
					Title:         "Safety Check",
					Description:   "Ensure power is disconnected and the system is safe to work on.",
					ImageURL:      "https://images.pexels.com/photos/257736/pexels-photo-257736.jpeg",
					EstimatedTime: "5 minutes",
					Tools:         []string{"Multimeter", "Safety gloves"},
					SafetyNotes:   "Always verify power is completely disconnected",
				},
				{
					ID:            "2",
					Title:         "Remove Faulty Motor",
					Description:   "Detach the propeller, unplug the motor leads and unscrew the motor from its mount.",
					EstimatedTime: "15 minutes",
					Tools:         []string{"Hex driver set", "Prop wrench"},
				},
				{
					ID:            "3",
					Title:         "Install Replacement Motor",
					Description:   "Mount the new motor, torque the screws to specification and reconnect the leads.",
					EstimatedTime: "20 minutes",
					Tools:         []string{"Hex driver set", "Torque wrench", "Thread locker"},
					SafetyNotes:   "Match motor rotation direction to the arm position",
				},
				{
					ID:            "4",
					Title:         "Spin Test",
					Description:   "Power up without propellers and confirm direction and smooth running.",
					EstimatedTime: "10 minutes",
					Tools:         []string{"Ground station", "Tachometer"},
					SafetyNotes:   "Keep clear of the rotor arc during the test",
				},
			},
		},
		{
			ID:          "camera-calibration",
			Title:       "Camera System Calibration",
			Description: "Precision calibration of the UAV camera system.",
			Category:    "Maintenance",
			Duration:    "45 minutes",
			Difficulty:  DifficultyAdvanced,
			Steps: []Step{
				{
					ID:            "1",
					Title:         "Setup Calibration Environment",
					Description:   "Prepare the calibration area with proper lighting and targets.",
					ImageURL:      "https://images.pexels.com/photos/3861969/pexels-photo-3861969.jpeg",
					EstimatedTime: "10 minutes",
					Tools:         []string{"Calibration target", "Light meter"},
					SafetyNotes:   "Ensure stable mounting of all equipment",
				},
				{
					ID:            "2",
					Title:         "Capture Calibration Images",
					Description:   "Capture the target from the required set of angles and distances.",
					EstimatedTime: "15 minutes",
					Tools:         []string{"Calibration target", "Ground station"},
				},
				{
					ID:            "3",
					Title:         "Compute and Upload Parameters",
					Description:   "Run the calibration routine and upload the resulting lens parameters to the payload.",
					EstimatedTime: "10 minutes",
					Tools:         []string{"Laptop with calibration software"},
				},
				{
					ID:            "4",
					Title:         "Verify Gimbal Alignment",
					Description:   "Check horizon level and gimbal limits against the reference target.",
					EstimatedTime: "10 minutes",
					Tools:         []string{"Level", "Calibration target"},
				},
			},
		},
	}
}
